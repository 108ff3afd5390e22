package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
	"github.com/artpar/marquee/internal/tui/components"
)

// SearchMode selects how the search screen finds movies.
type SearchMode int

const (
	ModeKeyword SearchMode = iota
	ModeGenre
)

// searchFocus is the part of the search screen receiving keys.
type searchFocus int

const (
	focusInput searchFocus = iota
	focusGenres
	focusResults
)

type searchResultsMsg struct {
	Seq   int
	Label string
	Items []movie.Snapshot
	Err   error
}

type genresLoadedMsg struct {
	Genres []catalog.Genre
	Err    error
}

// SearchView finds movies by keyword or by genre.
type SearchView struct {
	title   string
	focused bool
	width   int
	height  int

	deps   Deps
	keys   KeyMap
	logger *slog.Logger

	mode  SearchMode
	focus searchFocus
	input textinput.Model
	grid  *components.MovieGrid

	genres        []catalog.Genre
	genreCursor   int
	genresLoading bool

	seq     int
	loading bool
	label   string
	err     error
}

// NewSearchView creates the search screen with the keyword input focused.
func NewSearchView(deps Deps) *SearchView {
	input := textinput.New()
	input.Placeholder = "Search movies…"
	input.Prompt = "🔍 "
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)
	input.Focus()

	grid := components.NewMovieGrid("Results")
	grid.SetEmptyText("No results")

	return &SearchView{
		title:   "Search",
		focused: true,
		deps:    deps.withDefaults(),
		keys:    DefaultKeyMap(),
		logger:  logging.New("search-view"),
		mode:    ModeKeyword,
		focus:   focusInput,
		input:   input,
		grid:    grid,
	}
}

// Init initializes the view.
func (v *SearchView) Init() tea.Cmd {
	return nil
}

// Capturing reports whether the keyword input owns the keyboard.
func (v *SearchView) Capturing() bool {
	return v.focused && v.focus == focusInput
}

// Update handles messages.
func (v *SearchView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case tui.FocusMsg:
		v.Focus()

	case tui.BlurMsg:
		v.Blur()

	case searchResultsMsg:
		v.applyResults(msg)

	case genresLoadedMsg:
		v.genresLoading = false
		if msg.Err != nil {
			v.logger.Error("failed to load genres", "error", msg.Err)
			v.err = msg.Err
			return v, nil
		}
		v.genres = msg.Genres
		if v.genreCursor >= len(v.genres) {
			v.genreCursor = 0
		}

	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *SearchView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch v.focus {
	case focusInput:
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.setFocus(focusResults)
			return v, v.search(query)
		case tea.KeyEsc:
			v.setFocus(focusResults)
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd

	case focusGenres:
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.genreCursor > 0 {
				v.genreCursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.genreCursor < len(v.genres)-1 {
				v.genreCursor++
			}
		case key.Matches(msg, v.keys.Open):
			if len(v.genres) == 0 {
				return v, nil
			}
			genre := v.genres[v.genreCursor]
			v.setFocus(focusResults)
			return v, v.discover(genre)
		case key.Matches(msg, v.keys.Search):
			return v, v.setMode(ModeKeyword)
		case msg.Type == tea.KeyEsc:
			v.setFocus(focusResults)
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Search):
		return v, v.setMode(ModeKeyword)
	case key.Matches(msg, v.keys.Genres):
		return v, v.setMode(ModeGenre)
	case key.Matches(msg, v.keys.Reload) && v.mode == ModeGenre && len(v.genres) > 0:
		return v, v.discover(v.genres[v.genreCursor])
	}
	return v, update(v.grid, msg)
}

// setMode switches mode and moves focus to the mode's picker.
func (v *SearchView) setMode(mode SearchMode) tea.Cmd {
	v.mode = mode
	if mode == ModeKeyword {
		v.setFocus(focusInput)
		return nil
	}

	v.setFocus(focusGenres)
	if v.genres == nil && !v.genresLoading {
		return v.loadGenres()
	}
	return nil
}

func (v *SearchView) setFocus(f searchFocus) {
	v.focus = f
	if f == focusInput {
		v.input.Focus()
	} else {
		v.input.Blur()
	}
	if f == focusResults {
		v.grid.Focus()
	} else {
		v.grid.Blur()
	}
}

func (v *SearchView) search(query string) tea.Cmd {
	v.seq++
	v.loading = true

	seq := v.seq
	cat, timeout := v.deps.Catalog, v.deps.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := cat.SearchMovies(ctx, query)
		return searchResultsMsg{Seq: seq, Label: fmt.Sprintf("Results for %q", query), Items: items, Err: err}
	}
}

func (v *SearchView) discover(genre catalog.Genre) tea.Cmd {
	v.seq++
	v.loading = true

	seq := v.seq
	cat, timeout := v.deps.Catalog, v.deps.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := cat.DiscoverByGenre(ctx, genre.ID)
		return searchResultsMsg{Seq: seq, Label: genre.Name, Items: items, Err: err}
	}
}

func (v *SearchView) loadGenres() tea.Cmd {
	v.genresLoading = true

	cat, timeout := v.deps.Catalog, v.deps.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		genres, err := cat.Genres(ctx)
		return genresLoadedMsg{Genres: genres, Err: err}
	}
}

func (v *SearchView) applyResults(msg searchResultsMsg) {
	if msg.Seq != v.seq {
		return
	}
	v.loading = false

	if msg.Err != nil {
		v.logger.Error("search failed", "label", msg.Label, "error", msg.Err)
		v.err = msg.Err
		return
	}

	v.err = nil
	v.label = msg.Label
	v.grid.SetItems(movie.Collection(msg.Items))
}

// Mode returns the current search mode.
func (v *SearchView) Mode() SearchMode {
	return v.mode
}

// Query returns the keyword input value.
func (v *SearchView) Query() string {
	return v.input.Value()
}

// Results returns the displayed movies.
func (v *SearchView) Results() movie.Collection {
	return v.grid.Items()
}

// Genres returns the loaded genre list.
func (v *SearchView) Genres() []catalog.Genre {
	return v.genres
}

// Err returns the error of the last request, if it failed.
func (v *SearchView) Err() error {
	return v.err
}

// View renders the view.
func (v *SearchView) View() string {
	styles := tui.DefaultStyles()
	var sections []string

	switch v.mode {
	case ModeKeyword:
		sections = append(sections, v.input.View())
	case ModeGenre:
		sections = append(sections, v.renderGenres(styles))
	}

	status := v.label
	switch {
	case v.loading:
		status = "Searching…"
	case v.err != nil:
		status = styles.Error.Render("Request failed: " + v.err.Error())
	}
	if status != "" {
		sections = append(sections, styles.Muted.Render(status))
	}

	if v.label != "" || v.grid.Len() > 0 {
		sections = append(sections, v.grid.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *SearchView) renderGenres(styles tui.Styles) string {
	if v.genresLoading {
		return styles.Muted.Render("Loading genres…")
	}
	if len(v.genres) == 0 {
		return styles.Muted.Render("No genres")
	}

	lines := []string{styles.Title.Render("Genres")}
	for i, g := range v.genres {
		line := "  " + g.Name
		if i == v.genreCursor {
			line = "▸ " + g.Name
			if v.focus == focusGenres {
				line = styles.Title.Render(line)
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Title returns the view title.
func (v *SearchView) Title() string {
	return v.title
}

// Focused returns true if focused.
func (v *SearchView) Focused() bool {
	return v.focused
}

// Focus sets the view as focused.
func (v *SearchView) Focus() {
	v.focused = true
	v.setFocus(v.focus)
}

// Blur removes focus.
func (v *SearchView) Blur() {
	v.focused = false
	v.input.Blur()
	v.grid.Blur()
}

// SetSize sets dimensions.
func (v *SearchView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	v.grid.SetSize(width, height-3)
}

// Width returns the width.
func (v *SearchView) Width() int {
	return v.width
}

// Height returns the height.
func (v *SearchView) Height() int {
	return v.height
}
