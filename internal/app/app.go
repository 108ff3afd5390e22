// Package app wires configuration, storage, favorites and the catalog client together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/config"
	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/kv"
	"github.com/artpar/marquee/internal/kv/filesystem"
	"github.com/artpar/marquee/internal/kv/sqlite"
	"github.com/artpar/marquee/internal/logging"
)

// App is the main application container with dependency injection.
type App struct {
	config    config.Config
	store     kv.Store
	favorites *favorites.Service
	catalog   *catalog.Client
	logger    *slog.Logger
}

// Option is a function that configures the App.
type Option func(*App)

// WithStore injects a kv store instead of opening the configured backend.
func WithStore(store kv.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithCatalog injects a catalog client.
func WithCatalog(client *catalog.Client) Option {
	return func(a *App) {
		a.catalog = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates a new App from cfg. Storage is opened unless one was injected.
func New(cfg config.Config, opts ...Option) (*App, error) {
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.New("app")
	}

	if a.store == nil {
		store, err := OpenStore(cfg)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.favorites = favorites.NewService(a.store, favorites.WithLogger(logging.New("favorites")))

	if a.catalog == nil {
		a.catalog = catalog.NewClient(cfg.AccessToken,
			catalog.WithBaseURL(cfg.APIURL),
			catalog.WithImageBaseURL(cfg.ImageBaseURL),
			catalog.WithLanguage(cfg.Language),
			catalog.WithTimeout(cfg.Timeout),
		)
	}

	a.logger.Debug("app ready", "storage", cfg.Storage, "data_dir", cfg.DataDir)
	return a, nil
}

// OpenStore opens the kv backend selected by cfg.Storage under cfg.DataDir.
func OpenStore(cfg config.Config) (kv.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.New(cfg.DBPath())
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageFile:
		store, err := filesystem.New(cfg.KVDir())
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// Config returns the application configuration.
func (a *App) Config() config.Config {
	return a.config
}

// Store returns the kv store.
func (a *App) Store() kv.Store {
	return a.store
}

// Favorites returns the favorites service shared by every view.
func (a *App) Favorites() *favorites.Service {
	return a.favorites
}

// Catalog returns the catalog client.
func (a *App) Catalog() *catalog.Client {
	return a.catalog
}

// StorageContext bounds a storage call by the configured storage timeout.
func (a *App) StorageContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, a.config.StorageTimeout)
}

// Close closes storage.
func (a *App) Close() error {
	return a.store.Close()
}
