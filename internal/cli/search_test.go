package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/config"
)

func TestSearchCommand(t *testing.T) {
	t.Run("searches by keyword", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "search", "the", "matrix")
		require.NoError(t, err)
		assert.Contains(t, out, "603")
		assert.Contains(t, out, "The Matrix")
		assert.NotContains(t, out, "Fight Club")
		assert.Contains(t, env.server.Requests(), "/search/movie?query=the+matrix")
	})

	t.Run("marks favorites", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "add", "550")
		require.NoError(t, err)

		out, _, err := env.run(t, "search", "--genre", "18")
		require.NoError(t, err)
		assert.Regexp(t, `♥ 550\s+★ 8.4\s+Fight Club`, out)
		assert.Regexp(t, `  13\s+★ 8.5\s+Forrest Gump`, out)
	})

	t.Run("no results", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "search", "zzzz")
		require.NoError(t, err)
		assert.Contains(t, out, "No results")
	})

	t.Run("json output", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "search", "fight", "--json")
		require.NoError(t, err)

		var items []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Fight Club", items[0]["title"])
	})

	t.Run("needs a query or genre", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run(t, "search")
		assert.Error(t, err)
	})

	t.Run("needs a token", func(t *testing.T) {
		env := newCLIEnv(t)
		t.Setenv(config.EnvAccessToken, "")

		_, _, err := env.run(t, "search", "fight")
		assert.ErrorIs(t, err, config.ErrMissingToken)
	})

	t.Run("rejected token", func(t *testing.T) {
		env := newCLIEnv(t)
		t.Setenv(config.EnvAccessToken, "wrong")

		_, _, err := env.run(t, "search", "fight")
		assert.ErrorIs(t, err, catalog.ErrUnauthorized)
	})
}

func TestGenresCommand(t *testing.T) {
	t.Run("lists genres", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "genres")
		require.NoError(t, err)
		assert.Regexp(t, `18\s+Drama`, out)
		assert.Regexp(t, `878\s+Science Fiction`, out)
	})

	t.Run("json output", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "genres", "--json")
		require.NoError(t, err)

		var genres []catalog.Genre
		require.NoError(t, json.Unmarshal([]byte(out), &genres))
		assert.Len(t, genres, 2)
	})
}
