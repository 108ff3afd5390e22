package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/marquee/internal/config"
	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/kv/sqlite"
)

func TestFavoritesCommand(t *testing.T) {
	t.Run("list on a fresh data dir", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "favorites", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No favorite movies found.")
	})

	t.Run("add fetches from the catalog and keeps order", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "favorites", "add", "603", "550")
		require.NoError(t, err)
		assert.Contains(t, out, "Added The Matrix (603)")
		assert.Contains(t, out, "Added Fight Club (550)")

		out, _, err = env.run(t, "favorites", "list")
		require.NoError(t, err)
		assert.Regexp(t, `(?s)603.*The Matrix.*550.*Fight Club`, out)
		assert.Contains(t, out, "★ 8.4")
	})

	t.Run("add twice stores once", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run(t, "favorites", "add", "550")
		require.NoError(t, err)
		_, _, err = env.run(t, "favorites", "add", "550")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "list", "--json")
		require.NoError(t, err)

		var items []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &items))
		require.Len(t, items, 1)
		assert.Equal(t, float64(550), items[0]["id"])
		assert.Equal(t, "Fight Club", items[0]["title"])
		assert.Equal(t, "/fc.jpg", items[0]["poster_path"])
	})

	t.Run("add unknown movie fails", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run(t, "favorites", "add", "999")
		assert.Error(t, err)
	})

	t.Run("add needs a token", func(t *testing.T) {
		env := newCLIEnv(t)
		t.Setenv(config.EnvAccessToken, "")

		_, _, err := env.run(t, "favorites", "add", "550")
		assert.ErrorIs(t, err, config.ErrMissingToken)
	})

	t.Run("rejects invalid ids", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run(t, "favorites", "add", "abc")
		assert.ErrorContains(t, err, `invalid movie id "abc"`)

		_, _, err = env.run(t, "favorites", "check", "-5")
		assert.Error(t, err)
	})

	t.Run("check and remove", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "add", "550")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "check", "550")
		require.NoError(t, err)
		assert.Contains(t, out, "550 is a favorite")

		out, _, err = env.run(t, "favorites", "remove", "550")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 550")

		out, _, err = env.run(t, "favorites", "check", "550")
		require.NoError(t, err)
		assert.Contains(t, out, "550 is not a favorite")

		out, _, err = env.run(t, "favorites", "rm", "550")
		require.NoError(t, err)
		assert.Contains(t, out, "550 was not a favorite")
	})

	t.Run("clear", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "add", "550", "13")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "clear")
		require.NoError(t, err)
		assert.Contains(t, out, "Cleared favorites")

		out, _, err = env.run(t, "favorites", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No favorite movies found.")
	})

	t.Run("toggle adds then removes", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "favorites", "toggle", "603")
		require.NoError(t, err)
		assert.Contains(t, out, "Added The Matrix (603)")

		out, _, err = env.run(t, "favorites", "check", "603")
		require.NoError(t, err)
		assert.Contains(t, out, "603 is a favorite")

		out, _, err = env.run(t, "favorites", "toggle", "603")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed The Matrix (603)")

		out, _, err = env.run(t, "favorites", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No favorite movies found.")
	})

	t.Run("remove reports each id once per outcome", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "add", "550")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "remove", "550", "550", "13")
		require.NoError(t, err)
		assert.Equal(t, "Removed 550\n550 was not a favorite\n13 was not a favorite\n", out)
	})

	t.Run("file storage", func(t *testing.T) {
		env := newCLIEnv(t)

		_, _, err := env.run(t, "--storage", "file", "favorites", "add", "13")
		require.NoError(t, err)

		out, _, err := env.run(t, "--storage", "file", "favorites", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Forrest Gump")

		out, _, err = env.run(t, "favorites", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No favorite movies found.", "sqlite backend is separate")
	})
}

func TestFavoritesCommand_Doctor(t *testing.T) {
	writeRaw := func(t *testing.T, env *cliEnv, raw string) {
		t.Helper()
		cfg := config.Default()
		cfg.DataDir = env.dataDir
		store, err := sqlite.New(cfg.DBPath())
		require.NoError(t, err)
		defer store.Close()
		require.NoError(t, store.Set(context.Background(), favorites.DefaultKey, []byte(raw)))
	}

	t.Run("healthy", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "add", "550")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "Favorites OK (1 movies)")
	})

	t.Run("reports corruption", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "list")
		require.NoError(t, err)
		writeRaw(t, env, "{broken")

		_, _, err = env.run(t, "favorites", "doctor")
		assert.ErrorIs(t, err, favorites.ErrCorruptState)
		assert.ErrorContains(t, err, "--repair")

		out, _, err := env.run(t, "favorites", "list")
		require.NoError(t, err, "malformed data loads as empty")
		assert.Contains(t, out, "No favorite movies found.")
	})

	t.Run("repairs", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "list")
		require.NoError(t, err)
		writeRaw(t, env, "{broken")

		out, _, err := env.run(t, "favorites", "doctor", "--repair")
		require.NoError(t, err)
		assert.Contains(t, out, "Repaired favorites (0 movies kept)")

		out, _, err = env.run(t, "favorites", "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "Favorites OK (0 movies)")
		assert.Contains(t, out, "Unreadable data kept under @FavoriteList.corrupt.")
	})

	t.Run("clear keeps unreadable data", func(t *testing.T) {
		env := newCLIEnv(t)
		_, _, err := env.run(t, "favorites", "list")
		require.NoError(t, err)
		writeRaw(t, env, "{broken")

		_, _, err = env.run(t, "favorites", "clear")
		require.NoError(t, err)

		out, _, err := env.run(t, "favorites", "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "Favorites OK (0 movies)")
		assert.Contains(t, out, "Unreadable data kept under @FavoriteList.corrupt.")
	})
}

// A slow catalog must not use up the storage timeout.
func TestFavoritesCommand_SlowCatalog(t *testing.T) {
	env := newCLIEnv(t)

	target, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	proxy := httputil.NewSingleHostReverseProxy(target)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(400 * time.Millisecond)
		proxy.ServeHTTP(w, r)
	}))
	t.Cleanup(slow.Close)
	t.Setenv(config.EnvAPIURL, slow.URL)

	require.NoError(t, os.WriteFile(env.config, []byte("storage_timeout: 300ms\n"), 0644))

	out, _, err := env.run(t, "favorites", "add", "550", "13")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Fight Club (550)")
	assert.Contains(t, out, "Added Forrest Gump (13)")

	out, _, err = env.run(t, "favorites", "toggle", "603")
	require.NoError(t, err)
	assert.Contains(t, out, "Added The Matrix (603)")

	out, _, err = env.run(t, "favorites", "list")
	require.NoError(t, err)
	assert.Regexp(t, `(?s)550.*13.*603`, out)
}
