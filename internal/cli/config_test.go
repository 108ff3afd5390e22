package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/marquee/internal/config"
)

func TestConfigCommand_Init(t *testing.T) {
	t.Run("writes the effective settings without the token", func(t *testing.T) {
		env := newCLIEnv(t)

		out, _, err := env.run(t, "--storage", "file", "config", "init")
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+env.config)

		raw, err := os.ReadFile(env.config)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), env.server.Token)

		cfg, err := config.Load(env.config)
		require.NoError(t, err)
		assert.Equal(t, config.StorageFile, cfg.Storage)
		assert.Equal(t, env.dataDir, cfg.DataDir)
	})

	t.Run("refuses to overwrite without --force", func(t *testing.T) {
		env := newCLIEnv(t)
		require.NoError(t, os.WriteFile(env.config, []byte("storage: sqlite\n"), 0644))

		_, _, err := env.run(t, "--storage", "file", "config", "init")
		assert.ErrorContains(t, err, "already exists")

		_, _, err = env.run(t, "--storage", "file", "config", "init", "--force")
		require.NoError(t, err)

		cfg, err := config.Load(env.config)
		require.NoError(t, err)
		assert.Equal(t, config.StorageFile, cfg.Storage)
	})
}
