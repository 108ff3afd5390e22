package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	New("favorites").Info("hello")

	assert.Contains(t, buf.String(), "component=favorites")
	assert.Contains(t, buf.String(), "hello")
}

func TestInit_Formats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		Init(slog.LevelInfo, "text", &buf)
		New("fmt").Info("text check")
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		Init(slog.LevelInfo, "json", &buf)
		New("fmt").Info("json check")
		assert.Contains(t, buf.String(), `"level":"INFO"`)
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		Init(slog.LevelWarn, "text", &buf)
		New("fmt").Info("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "marquee.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
