// Package harness provides E2E testing utilities for Marquee.
package harness

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/config"
)

// E2EHarness is the main test orchestrator. The CLI and TUI runners it hands
// out share one fake catalog and one data directory.
type E2EHarness struct {
	t       *testing.T
	server  *catalog.TestServer
	tmpDir  string
	storage string
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	Storage string        // Default: sqlite
	Timeout time.Duration // Default: 5 seconds
}

// New creates a new E2E harness.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Storage == "" {
		cfg.Storage = config.StorageSQLite
	}

	h := &E2EHarness{
		t:       t,
		server:  catalog.NewTestServer(t),
		tmpDir:  t.TempDir(),
		storage: cfg.Storage,
		timeout: cfg.Timeout,
	}

	t.Setenv(config.EnvAPIURL, h.server.URL)
	t.Setenv(config.EnvAccessToken, h.server.Token)
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvStorage, "")

	return h
}

// Server returns the fake catalog.
func (h *E2EHarness) Server() *catalog.TestServer {
	return h.server
}

// ServerURL returns the fake catalog URL.
func (h *E2EHarness) ServerURL() string {
	return h.server.URL
}

// TmpDir returns the temporary directory path.
func (h *E2EHarness) TmpDir() string {
	return h.tmpDir
}

// DataDir returns the data directory shared by every runner.
func (h *E2EHarness) DataDir() string {
	return filepath.Join(h.tmpDir, "data")
}

// ConfigPath returns the (absent) config file path used by every runner.
func (h *E2EHarness) ConfigPath() string {
	return filepath.Join(h.tmpDir, "config.yaml")
}

// Config returns the configuration the runners use.
func (h *E2EHarness) Config() config.Config {
	cfg := config.Default()
	cfg.DataDir = h.DataDir()
	cfg.Storage = h.storage
	cfg.APIURL = h.server.URL
	cfg.AccessToken = h.server.Token
	return cfg
}

// Timeout returns the configured timeout.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// T returns the testing.T instance.
func (h *E2EHarness) T() *testing.T {
	return h.t
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
