// Package config loads marquee settings from YAML, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Environment variables read by Load.
const (
	EnvAPIURL      = "TMDB_API_URL"
	EnvAccessToken = "TMDB_ACCESS_TOKEN"
	EnvDataDir     = "MARQUEE_DATA_DIR"
	EnvStorage     = "MARQUEE_STORAGE"
)

const defaultConfigPath = "~/.marquee/config.yaml"

// ErrMissingToken is returned when a catalog token is required but not configured.
var ErrMissingToken = errors.New("TMDB access token is not set (export " + EnvAccessToken + " or add it to .env)")

// Config holds application configuration.
type Config struct {
	DataDir        string        `yaml:"data_dir"`
	Storage        string        `yaml:"storage"`
	StorageTimeout time.Duration `yaml:"storage_timeout"`
	APIURL         string        `yaml:"api_url"`
	ImageBaseURL   string        `yaml:"image_base_url"`
	AccessToken    string        `yaml:"access_token,omitempty"`
	Language       string        `yaml:"language"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:        "~/.marquee",
		Storage:        StorageSQLite,
		StorageTimeout: 5 * time.Second,
		APIURL:         "https://api.themoviedb.org/3",
		ImageBaseURL:   "https://image.tmdb.org/t/p",
		Language:       "en-US",
		Timeout:        30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// ResolvePath expands path to an absolute file name. An empty path means DefaultPath.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return expandPath(path)
}

// Overrides holds values, typically from command-line flags, that win over
// the file and the environment. Empty fields are ignored.
type Overrides struct {
	DataDir string
	Storage string
}

// Load reads the YAML file at path (a missing file is fine), then the given
// .env files (".env" when none are given), then environment overrides.
// Variables already present in the environment win over .env entries.
func Load(path string, envFiles ...string) (Config, error) {
	return LoadWith(path, Overrides{}, envFiles...)
}

// LoadWith is Load with o applied last, before the result is validated.
func LoadWith(path string, o Overrides, envFiles ...string) (Config, error) {
	cfg := Default()

	resolved, err := ResolvePath(path)
	if err != nil {
		return cfg, fmt.Errorf("resolve config path: %w", err)
	}

	content, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	cfg.apply(o)
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	dataDir, err := expandPath(cfg.DataDir)
	if err != nil {
		return cfg, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir

	return cfg, cfg.Validate()
}

// Validate checks the values that have a fixed domain.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageSQLite, StorageFile)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("storage_timeout must be positive")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is empty")
	}
	return nil
}

// RequireToken reports ErrMissingToken when no access token is configured.
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return ErrMissingToken
	}
	return nil
}

// DBPath is the SQLite database used by the sqlite storage backend.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "marquee.db")
}

// KVDir is the directory used by the file storage backend.
func (c Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// LogPath is where the TUI writes its log.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "marquee.log")
}

// Save writes the configuration as YAML, creating directories as needed.
// The access token is never written.
func Save(path string, c Config) error {
	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	c.AccessToken = ""
	content, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage = v
	}
}

func (c *Config) apply(o Overrides) {
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.Storage != "" {
		c.Storage = o.Storage
	}
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
