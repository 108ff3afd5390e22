package components

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
)

// ToggleState is the favorite membership shown for one movie.
type ToggleState int

const (
	ToggleUnknown ToggleState = iota
	ToggleNotFavorite
	ToggleIsFavorite
)

func (s ToggleState) String() string {
	switch s {
	case ToggleNotFavorite:
		return "not-favorite"
	case ToggleIsFavorite:
		return "favorite"
	default:
		return "unknown"
	}
}

func stateOf(isFavorite bool) ToggleState {
	if isFavorite {
		return ToggleIsFavorite
	}
	return ToggleNotFavorite
}

// FavoriteCheckedMsg carries the result of the initial membership check.
type FavoriteCheckedMsg struct {
	OpID       string
	MovieID    int64
	IsFavorite bool
	Err        error
}

// FavoriteWrittenMsg carries the result of an add or remove.
type FavoriteWrittenMsg struct {
	OpID     string
	MovieID  int64
	Favorite bool // state the write tried to persist
	Err      error
}

// FavoriteToggle tracks whether the displayed movie is a favorite.
//
// Toggles apply to the displayed state at once; the store write runs as a
// command. At most one write is in flight: toggles made meanwhile are folded
// into the next write. A failed write reverts to the last persisted state.
type FavoriteToggle struct {
	store   favorites.Store
	timeout time.Duration
	logger  *slog.Logger

	movieID  int64
	snapshot *movie.Snapshot

	state     ToggleState // displayed (and desired) state
	confirmed ToggleState // last state known to be persisted
	checkOp   string
	inflight  string
}

// NewFavoriteToggle creates an unbound toggle.
func NewFavoriteToggle(store favorites.Store, timeout time.Duration) *FavoriteToggle {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FavoriteToggle{
		store:   store,
		timeout: timeout,
		logger:  logging.New("favorite-toggle"),
	}
}

// Bind attaches the toggle to a movie id, resets it to Unknown and
// returns the membership check command.
func (t *FavoriteToggle) Bind(movieID int64) tea.Cmd {
	t.movieID = movieID
	t.snapshot = nil
	t.state = ToggleUnknown
	t.confirmed = ToggleUnknown
	t.inflight = ""
	t.checkOp = uuid.NewString()
	return t.check(t.checkOp, movieID)
}

// SetMovie supplies the snapshot written by Add once the catalog record is loaded.
func (t *FavoriteToggle) SetMovie(s movie.Snapshot) {
	if s.ID != t.movieID {
		return
	}
	t.snapshot = &s
}

// MovieID returns the bound movie id.
func (t *FavoriteToggle) MovieID() int64 {
	return t.movieID
}

// State returns the displayed state.
func (t *FavoriteToggle) State() ToggleState {
	return t.state
}

// IsFavorite reports whether the heart is shown filled.
func (t *FavoriteToggle) IsFavorite() bool {
	return t.state == ToggleIsFavorite
}

// Pending reports whether a write is in flight.
func (t *FavoriteToggle) Pending() bool {
	return t.inflight != ""
}

// Toggle flips the displayed state and schedules the write.
// It is ignored while the state is Unknown, and adding is ignored until
// the snapshot is known.
func (t *FavoriteToggle) Toggle() tea.Cmd {
	switch t.state {
	case ToggleUnknown:
		return nil
	case ToggleNotFavorite:
		if t.snapshot == nil {
			return nil
		}
		t.state = ToggleIsFavorite
	case ToggleIsFavorite:
		t.state = ToggleNotFavorite
	}

	if t.inflight != "" {
		return nil
	}
	return t.flush()
}

// Update applies check and write results addressed to this toggle.
func (t *FavoriteToggle) Update(msg tea.Msg) (*FavoriteToggle, tea.Cmd) {
	switch msg := msg.(type) {
	case FavoriteCheckedMsg:
		if msg.OpID != t.checkOp || msg.MovieID != t.movieID {
			return t, nil
		}
		t.checkOp = ""
		if msg.Err != nil {
			t.logger.Error("favorite check failed", "id", msg.MovieID, "error", msg.Err)
		}
		if t.state == ToggleUnknown {
			t.state = stateOf(msg.IsFavorite)
			t.confirmed = t.state
		}
		return t, nil

	case FavoriteWrittenMsg:
		if msg.OpID != t.inflight || msg.MovieID != t.movieID {
			return t, nil
		}
		t.inflight = ""

		if msg.Err != nil {
			t.logger.Error("favorite write failed, reverting", "id", msg.MovieID, "favorite", msg.Favorite, "error", msg.Err)
			t.state = t.confirmed
			return t, tui.Status("Could not update favorites")
		}

		t.confirmed = stateOf(msg.Favorite)
		return t, t.flush()
	}

	return t, nil
}

// View renders the heart button.
func (t *FavoriteToggle) View() string {
	styles := tui.DefaultStyles()
	switch t.state {
	case ToggleIsFavorite:
		return styles.Heart.Render("♥ Favorite") + styles.Muted.Render("  (f to remove)")
	case ToggleNotFavorite:
		return styles.Muted.Render("♡ Add to favorites (f)")
	default:
		return styles.Muted.Render("♡ …")
	}
}

// flush writes the displayed state when it differs from the persisted one.
func (t *FavoriteToggle) flush() tea.Cmd {
	if t.state == t.confirmed || t.state == ToggleUnknown {
		return nil
	}

	op := uuid.NewString()
	t.inflight = op
	id := t.movieID

	if t.state == ToggleIsFavorite {
		snap := *t.snapshot
		return t.write(op, id, true, func(ctx context.Context) error {
			return t.store.Add(ctx, snap)
		})
	}
	return t.write(op, id, false, func(ctx context.Context) error {
		_, err := t.store.Remove(ctx, id)
		return err
	})
}

func (t *FavoriteToggle) check(op string, id int64) tea.Cmd {
	store, timeout := t.store, t.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ok, err := store.Contains(ctx, id)
		return FavoriteCheckedMsg{OpID: op, MovieID: id, IsFavorite: ok, Err: err}
	}
}

func (t *FavoriteToggle) write(op string, id int64, favorite bool, fn func(ctx context.Context) error) tea.Cmd {
	timeout := t.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return FavoriteWrittenMsg{OpID: op, MovieID: id, Favorite: favorite, Err: fn(ctx)}
	}
}
