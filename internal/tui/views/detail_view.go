package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
	"github.com/artpar/marquee/internal/tui/components"
)

type detailsLoadedMsg struct {
	ID      int64
	Details catalog.Details
	Err     error
}

// DetailView shows one movie, its favorite toggle and its recommendations.
type DetailView struct {
	title   string
	focused bool
	width   int
	height  int

	deps   Deps
	keys   KeyMap
	logger *slog.Logger

	id      int64
	toggle  *components.FavoriteToggle
	recs    *components.MovieGrid
	details *catalog.Details
	loading bool
	err     error
}

// NewDetailView creates the detail screen for a movie id. Init starts the fetches.
func NewDetailView(id int64, deps Deps) *DetailView {
	deps = deps.withDefaults()

	recs := components.NewMovieGrid("Recommendations")
	recs.SetEmptyText("No recommendations")

	return &DetailView{
		title:  "Movie",
		deps:   deps,
		keys:   DefaultKeyMap(),
		logger: logging.New("detail-view"),
		id:     id,
		toggle: components.NewFavoriteToggle(deps.Favorites, deps.StorageTimeout),
		recs:   recs,
	}
}

// Init binds the toggle and fetches the movie.
func (v *DetailView) Init() tea.Cmd {
	return tea.Batch(v.toggle.Bind(v.id), v.fetch())
}

// Update handles messages.
func (v *DetailView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case tui.FocusMsg:
		v.Focus()
		return v, v.recheck()

	case tui.BlurMsg:
		v.Blur()

	case detailsLoadedMsg:
		if msg.ID != v.id {
			return v, nil
		}
		v.applyDetails(msg)

	case components.FavoriteCheckedMsg, components.FavoriteWrittenMsg:
		var cmd tea.Cmd
		v.toggle, cmd = v.toggle.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *DetailView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Toggle):
		return v, v.toggle.Toggle()

	case key.Matches(msg, v.keys.Copy):
		return v, v.copyLink()

	case key.Matches(msg, v.keys.Reload):
		if v.loading {
			return v, nil
		}
		return v, v.fetch()
	}

	return v, update(v.recs, msg)
}

// recheck re-reads membership when the screen is shown again, since another
// screen may have changed it. A pending write keeps the current state.
func (v *DetailView) recheck() tea.Cmd {
	if v.toggle.Pending() {
		return nil
	}
	cmd := v.toggle.Bind(v.id)
	if v.details != nil {
		v.toggle.SetMovie(v.details.Movie)
	}
	return cmd
}

func (v *DetailView) fetch() tea.Cmd {
	v.loading = true

	id := v.id
	cat, timeout := v.deps.Catalog, v.deps.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		details, err := cat.MovieWithRecommendations(ctx, id)
		return detailsLoadedMsg{ID: id, Details: details, Err: err}
	}
}

func (v *DetailView) applyDetails(msg detailsLoadedMsg) {
	v.loading = false

	if msg.Err != nil {
		v.logger.Error("failed to load movie", "id", msg.ID, "error", msg.Err)
		v.err = msg.Err
		return
	}

	details := msg.Details
	v.err = nil
	v.details = &details
	v.title = details.Movie.Title
	v.toggle.SetMovie(details.Movie)
	v.recs.SetItems(movie.Collection(details.Recommendations))
}

func (v *DetailView) copyLink() tea.Cmd {
	if v.details == nil {
		return nil
	}

	text := fmt.Sprintf("%s (%s)", v.details.Movie.Title, catalog.MovieURL(v.id))
	if err := v.deps.Copy(text); err != nil {
		v.logger.Warn("copy failed", "error", err)
		return tui.Status("✗ Copy failed")
	}
	return tui.Status("✓ Copied link")
}

// MovieID returns the displayed movie id.
func (v *DetailView) MovieID() int64 {
	return v.id
}

// Movie returns the loaded movie, if any.
func (v *DetailView) Movie() (movie.Snapshot, bool) {
	if v.details == nil {
		return movie.Snapshot{}, false
	}
	return v.details.Movie, true
}

// Toggle returns the favorite toggle.
func (v *DetailView) Toggle() *components.FavoriteToggle {
	return v.toggle
}

// Recommendations returns the recommendations grid.
func (v *DetailView) Recommendations() *components.MovieGrid {
	return v.recs
}

// Err returns the error of the last fetch, if it failed.
func (v *DetailView) Err() error {
	return v.err
}

// View renders the view.
func (v *DetailView) View() string {
	styles := tui.DefaultStyles()

	if v.details == nil {
		switch {
		case v.err != nil:
			return styles.Error.Render("Could not load movie: "+v.err.Error()) + "\n" +
				styles.Muted.Render("Press r to retry, esc to go back")
		default:
			return styles.Muted.Render("Loading movie…")
		}
	}

	m := v.details.Movie
	lines := []string{
		styles.Title.Render(m.Title),
		styles.Rating.Render("★ "+m.Rating()) + styles.Muted.Render(v.subtitle(m)),
		v.toggle.View(),
	}

	if overview := m.String("overview"); overview != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(max(v.width-2, 20)).Render(overview))
	}
	if poster := v.deps.Catalog.PosterURL(m.Poster(), catalog.PosterLarge); poster != "" {
		lines = append(lines, "", styles.Muted.Render("Poster: "+poster))
	}

	lines = append(lines, "", styles.Title.Render("Recommendations"), v.recs.View())
	return strings.Join(lines, "\n")
}

func (v *DetailView) subtitle(m movie.Snapshot) string {
	var parts []string
	if date := m.String("release_date"); len(date) >= 4 {
		parts = append(parts, date[:4])
	}
	if runtime := m.Int("runtime"); runtime > 0 {
		parts = append(parts, fmt.Sprintf("%dm", runtime))
	}
	if genres := m.GenreNames(); len(genres) > 0 {
		parts = append(parts, strings.Join(genres, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " · ")
}

// Title returns the view title.
func (v *DetailView) Title() string {
	return v.title
}

// Focused returns true if focused.
func (v *DetailView) Focused() bool {
	return v.focused
}

// Focus sets the view as focused.
func (v *DetailView) Focus() {
	v.focused = true
	v.recs.Focus()
}

// Blur removes focus.
func (v *DetailView) Blur() {
	v.focused = false
	v.recs.Blur()
}

// SetSize sets dimensions.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.recs.SetSize(width, max(height-8, 4))
}

// Width returns the width.
func (v *DetailView) Width() int {
	return v.width
}

// Height returns the height.
func (v *DetailView) Height() int {
	return v.height
}
