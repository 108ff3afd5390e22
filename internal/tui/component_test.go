package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBaseComponent(t *testing.T) {
	t.Run("creates with title", func(t *testing.T) {
		c := NewBaseComponent("Favorites")
		assert.Equal(t, "Favorites", c.Title())
	})

	t.Run("starts unfocused", func(t *testing.T) {
		c := NewBaseComponent("Test")
		assert.False(t, c.Focused())
	})

	t.Run("focus and blur", func(t *testing.T) {
		c := NewBaseComponent("Test")
		c.Focus()
		assert.True(t, c.Focused())
		c.Blur()
		assert.False(t, c.Focused())
	})

	t.Run("tracks dimensions", func(t *testing.T) {
		c := NewBaseComponent("Test")
		c.SetSize(80, 24)
		assert.Equal(t, 80, c.Width())
		assert.Equal(t, 24, c.Height())
	})
}

func TestBaseComponent_Update(t *testing.T) {
	t.Run("handles window size message", func(t *testing.T) {
		c := NewBaseComponent("Test")

		updated, _ := c.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		base := updated.(*BaseComponent)

		assert.Equal(t, 120, base.Width())
		assert.Equal(t, 40, base.Height())
	})

	t.Run("handles focus and blur messages", func(t *testing.T) {
		c := NewBaseComponent("Test")

		updated, _ := c.Update(FocusMsg{})
		assert.True(t, updated.Focused())

		updated, _ = updated.Update(BlurMsg{})
		assert.False(t, updated.Focused())
	})

	t.Run("renders title", func(t *testing.T) {
		c := NewBaseComponent("Search")
		c.SetSize(30, 5)
		assert.Contains(t, c.View(), "[ Search ]")
	})
}

func TestCommands(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		msg := Status("saved %d", 3)()
		assert.Equal(t, StatusMsg{Text: "saved 3"}, msg)
	})

	t.Run("open movie", func(t *testing.T) {
		assert.Equal(t, OpenMovieMsg{ID: 42}, OpenMovie(42)())
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Fight Club", 20, "Fight Club"},
		{"Fight Club", 8, "Fight..."},
		{"Fight Club", 3, "Fig"},
		{"Fight Club", 0, ""},
		{"Amélie Poulain", 9, "Amélie..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), "Truncate(%q, %d)", tt.in, tt.width)
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abc", PadRight("abcdef", 3))
	assert.Equal(t, "é  ", PadRight("é", 3))
}
