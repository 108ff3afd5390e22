package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
)

func sampleMovies(n int) movie.Collection {
	c := make(movie.Collection, 0, n)
	for i := 1; i <= n; i++ {
		c = append(c, movie.NewSnapshot(int64(i*100), "Movie "+string(rune('A'+i-1)), float64(i)))
	}
	return c
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func focusedGrid(items movie.Collection) *MovieGrid {
	g := NewMovieGrid("Movies")
	g.SetSize(90, 40)
	g.SetItems(items)
	g.Focus()
	return g
}

func TestNewMovieGrid(t *testing.T) {
	g := NewMovieGrid("Favorites")

	assert.Equal(t, "Favorites", g.Title())
	assert.False(t, g.Focused())
	assert.Equal(t, 0, g.Len())
	_, ok := g.Selected()
	assert.False(t, ok)
}

func TestMovieGrid_Navigation(t *testing.T) {
	t.Run("moves across and down", func(t *testing.T) {
		g := focusedGrid(sampleMovies(7))

		g.Update(keyMsg("l"))
		assert.Equal(t, 1, g.Cursor())

		g.Update(keyMsg("j"))
		assert.Equal(t, 4, g.Cursor())

		g.Update(keyMsg("h"))
		assert.Equal(t, 3, g.Cursor())

		g.Update(keyMsg("k"))
		assert.Equal(t, 0, g.Cursor())
	})

	t.Run("stays in bounds", func(t *testing.T) {
		g := focusedGrid(sampleMovies(4))

		g.Update(keyMsg("h"))
		g.Update(keyMsg("k"))
		assert.Equal(t, 0, g.Cursor())

		g.Update(keyMsg("l"))
		g.Update(keyMsg("l"))
		g.Update(keyMsg("j"))
		assert.Equal(t, 2, g.Cursor(), "no card below")
	})

	t.Run("home and end", func(t *testing.T) {
		g := focusedGrid(sampleMovies(5))

		g.Update(keyMsg("end"))
		assert.Equal(t, 4, g.Cursor())

		g.Update(keyMsg("home"))
		assert.Equal(t, 0, g.Cursor())
	})

	t.Run("ignores keys when unfocused", func(t *testing.T) {
		g := focusedGrid(sampleMovies(5))
		g.Blur()

		g.Update(keyMsg("l"))
		assert.Equal(t, 0, g.Cursor())
	})
}

func TestMovieGrid_Enter(t *testing.T) {
	g := focusedGrid(sampleMovies(3))
	g.Update(keyMsg("l"))

	_, cmd := g.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, tui.OpenMovieMsg{ID: 200}, cmd())
}

func TestMovieGrid_EnterOnEmpty(t *testing.T) {
	g := focusedGrid(nil)

	_, cmd := g.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestMovieGrid_SetItems(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		g := focusedGrid(nil)
		items := movie.Collection{
			movie.NewSnapshot(3, "C", 1),
			movie.NewSnapshot(1, "A", 9),
			movie.NewSnapshot(2, "B", 5),
		}
		g.SetItems(items)

		assert.Equal(t, []int64{3, 1, 2}, g.Items().IDs())
	})

	t.Run("clamps cursor when list shrinks", func(t *testing.T) {
		g := focusedGrid(sampleMovies(6))
		g.Update(keyMsg("end"))

		g.SetItems(sampleMovies(2))
		assert.Equal(t, 1, g.Cursor())

		g.SetItems(nil)
		assert.Equal(t, 0, g.Cursor())
	})
}

func TestMovieGrid_View(t *testing.T) {
	t.Run("renders cards", func(t *testing.T) {
		g := focusedGrid(movie.Collection{movie.NewSnapshot(550, "Fight Club", 8.4)})
		view := g.View()

		assert.Contains(t, view, "Fight Club")
		assert.Contains(t, view, "★ 8.4")
	})

	t.Run("renders empty text", func(t *testing.T) {
		g := focusedGrid(nil)
		g.SetEmptyText("Nothing here")

		assert.Contains(t, g.View(), "Nothing here")
	})

	t.Run("scrolls to keep the cursor visible", func(t *testing.T) {
		g := NewMovieGrid("Movies")
		g.SetSize(90, 6)
		g.SetItems(sampleMovies(9))
		g.Focus()

		g.Update(keyMsg("end"))

		view := g.View()
		assert.Contains(t, view, "Movie I")
		assert.NotContains(t, view, "Movie A")
	})
}

func TestMovieGrid_FocusMessages(t *testing.T) {
	g := NewMovieGrid("Movies")

	g.Update(tui.FocusMsg{})
	assert.True(t, g.Focused())

	g.Update(tui.BlurMsg{})
	assert.False(t, g.Focused())

	g.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, g.Width())
	assert.Equal(t, 30, g.Height())
}
