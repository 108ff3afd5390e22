package views

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
)

// Catalog is the part of the catalog client the screens use.
type Catalog interface {
	SearchMovies(ctx context.Context, query string) ([]movie.Snapshot, error)
	Genres(ctx context.Context) ([]catalog.Genre, error)
	DiscoverByGenre(ctx context.Context, genreID int64) ([]movie.Snapshot, error)
	MovieWithRecommendations(ctx context.Context, id int64) (catalog.Details, error)
	PosterURL(path, size string) string
}

var _ Catalog = (*catalog.Client)(nil)

// Deps are the collaborators shared by every screen.
type Deps struct {
	Favorites      favorites.Store
	Catalog        Catalog
	StorageTimeout time.Duration
	RequestTimeout time.Duration

	// Copy writes text to the system clipboard. Defaults to clipboard.WriteAll.
	Copy func(text string) error
}

func (d Deps) withDefaults() Deps {
	if d.StorageTimeout <= 0 {
		d.StorageTimeout = 5 * time.Second
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}
	if d.Copy == nil {
		d.Copy = clipboard.WriteAll
	}
	return d
}

// KeyMap holds the key bindings of every screen.
type KeyMap struct {
	SearchTab    key.Binding
	FavoritesTab key.Binding
	NextTab      key.Binding
	Back         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
	Help         key.Binding
	Open         key.Binding
	Toggle       key.Binding
	Copy         key.Binding
	Reload       key.Binding
	Search       key.Binding
	Genres       key.Binding
	Up           key.Binding
	Down         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SearchTab:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "search")),
		FavoritesTab: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		NextTab:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch tab")),
		Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "back/quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Toggle:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "keyword search")),
		Genres:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genres")),
		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SearchTab, k.FavoritesTab, k.Open, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SearchTab, k.FavoritesTab, k.NextTab, k.Back, k.Quit},
		{k.Search, k.Genres, k.Up, k.Down, k.Open},
		{k.Toggle, k.Copy, k.Reload, k.Help},
	}
}

// capturer is implemented by screens that want every key, e.g. while a text input has focus.
type capturer interface {
	Capturing() bool
}

func update(c tui.Component, msg tea.Msg) tea.Cmd {
	_, cmd := c.Update(msg)
	return cmd
}
