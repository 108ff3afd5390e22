package views

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
	"github.com/artpar/marquee/internal/tui/components"
)

// EmptyFavoritesText is shown instead of an empty grid.
const EmptyFavoritesText = "No favorite movies found."

// favoritesLoadedMsg carries one reload of the favorites collection.
type favoritesLoadedMsg struct {
	Seq   int
	Items movie.Collection
	Err   error
}

// FavoritesView shows the whole favorites collection. It re-reads storage
// on every FocusMsg and replaces what it shows wholesale; there is no other
// channel by which it learns about changes made elsewhere.
type FavoritesView struct {
	title   string
	focused bool
	width   int
	height  int

	deps   Deps
	keys   KeyMap
	grid   *components.MovieGrid
	logger *slog.Logger

	seq     int
	loading bool
	loaded  bool
	err     error
}

// NewFavoritesView creates the favorites screen.
func NewFavoritesView(deps Deps) *FavoritesView {
	grid := components.NewMovieGrid("Favorites")
	grid.SetEmptyText(EmptyFavoritesText)

	return &FavoritesView{
		title:  "Favorites",
		deps:   deps.withDefaults(),
		keys:   DefaultKeyMap(),
		grid:   grid,
		logger: logging.New("favorites-view"),
	}
}

// Init initializes the view.
func (v *FavoritesView) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v *FavoritesView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case tui.FocusMsg:
		v.Focus()
		return v, v.reload()

	case tui.BlurMsg:
		v.Blur()

	case tui.RefreshMsg:
		return v, v.reload()

	case favoritesLoadedMsg:
		v.applyLoad(msg)

	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		if key.Matches(msg, v.keys.Reload) {
			return v, v.reload()
		}
		return v, update(v.grid, msg)
	}

	return v, nil
}

// reload starts a full read of the collection. Only the newest read is applied.
func (v *FavoritesView) reload() tea.Cmd {
	v.seq++
	v.loading = true

	seq := v.seq
	store, timeout := v.deps.Favorites, v.deps.StorageTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := store.Load(ctx)
		return favoritesLoadedMsg{Seq: seq, Items: items, Err: err}
	}
}

func (v *FavoritesView) applyLoad(msg favoritesLoadedMsg) {
	if msg.Seq != v.seq {
		return
	}
	v.loading = false

	if msg.Err != nil {
		v.logger.Error("failed to load favorites", "error", msg.Err)
		v.err = msg.Err
		return
	}

	v.err = nil
	v.loaded = true
	v.grid.SetItems(msg.Items)
}

// Items returns the displayed collection.
func (v *FavoritesView) Items() movie.Collection {
	return v.grid.Items()
}

// Loading reports whether a reload is in flight.
func (v *FavoritesView) Loading() bool {
	return v.loading
}

// Err returns the error of the last reload, if it failed.
func (v *FavoritesView) Err() error {
	return v.err
}

// View renders the view.
func (v *FavoritesView) View() string {
	styles := tui.DefaultStyles()

	header := styles.Title.Render(fmt.Sprintf("♥ Favorites (%d)", v.grid.Len()))
	if v.loading {
		header += styles.Muted.Render("  refreshing…")
	}

	var body string
	switch {
	case !v.loaded && v.err == nil:
		body = styles.Muted.Render("Loading favorites…")
	case v.grid.Len() == 0 && v.err == nil:
		body = lipgloss.NewStyle().
			Width(v.width).
			Align(lipgloss.Center).
			Foreground(tui.ColorMuted).
			Render(EmptyFavoritesText)
	default:
		body = v.grid.View()
	}

	if v.err != nil {
		body = styles.Error.Render("Could not read favorites") + "\n" + body
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

// Title returns the view title.
func (v *FavoritesView) Title() string {
	return v.title
}

// Focused returns true if focused.
func (v *FavoritesView) Focused() bool {
	return v.focused
}

// Focus sets the view as focused.
func (v *FavoritesView) Focus() {
	v.focused = true
	v.grid.Focus()
}

// Blur removes focus.
func (v *FavoritesView) Blur() {
	v.focused = false
	v.grid.Blur()
}

// SetSize sets dimensions.
func (v *FavoritesView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.grid.SetSize(width, height-2)
}

// Width returns the width.
func (v *FavoritesView) Width() int {
	return v.width
}

// Height returns the height.
func (v *FavoritesView) Height() int {
	return v.height
}
