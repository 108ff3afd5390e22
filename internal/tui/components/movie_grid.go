package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/marquee/internal/movie"
	"github.com/artpar/marquee/internal/tui"
)

// DefaultGridColumns is the number of cards per row.
const DefaultGridColumns = 3

const cardHeight = 4

// MovieGrid renders movies as a grid of cards and lets the user pick one.
type MovieGrid struct {
	title   string
	focused bool
	width   int
	height  int
	columns int
	items   movie.Collection
	cursor  int
	offset  int // first visible row
	empty   string
}

// NewMovieGrid creates an empty grid.
func NewMovieGrid(title string) *MovieGrid {
	return &MovieGrid{
		title:   title,
		columns: DefaultGridColumns,
		empty:   "No movies",
	}
}

// SetEmptyText sets the text shown when the grid has no items.
func (g *MovieGrid) SetEmptyText(text string) {
	g.empty = text
}

// SetItems replaces the displayed movies wholesale, keeping their order.
func (g *MovieGrid) SetItems(items movie.Collection) {
	g.items = items
	if g.cursor >= len(items) {
		g.cursor = len(items) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
	g.clampOffset()
}

// Items returns the displayed movies.
func (g *MovieGrid) Items() movie.Collection {
	return g.items
}

// Len returns the number of movies.
func (g *MovieGrid) Len() int {
	return len(g.items)
}

// Cursor returns the selected index.
func (g *MovieGrid) Cursor() int {
	return g.cursor
}

// Selected returns the movie under the cursor.
func (g *MovieGrid) Selected() (movie.Snapshot, bool) {
	if g.cursor < 0 || g.cursor >= len(g.items) {
		return movie.Snapshot{}, false
	}
	return g.items[g.cursor], true
}

// Init initializes the component.
func (g *MovieGrid) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (g *MovieGrid) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.SetSize(msg.Width, msg.Height)

	case tui.FocusMsg:
		g.focused = true

	case tui.BlurMsg:
		g.focused = false

	case tea.KeyMsg:
		if !g.focused {
			return g, nil
		}
		return g.handleKeyMsg(msg)
	}

	return g, nil
}

func (g *MovieGrid) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	switch msg.String() {
	case "l", "right":
		g.move(1)
	case "h", "left":
		g.move(-1)
	case "j", "down":
		g.move(g.columns)
	case "k", "up":
		g.move(-g.columns)
	case "home":
		g.cursor = 0
		g.clampOffset()
	case "end":
		if len(g.items) > 0 {
			g.cursor = len(g.items) - 1
			g.clampOffset()
		}
	case "enter":
		if s, ok := g.Selected(); ok {
			return g, tui.OpenMovie(s.ID)
		}
	}
	return g, nil
}

func (g *MovieGrid) move(delta int) {
	if len(g.items) == 0 {
		return
	}
	next := g.cursor + delta
	if next < 0 || next >= len(g.items) {
		return
	}
	g.cursor = next
	g.clampOffset()
}

func (g *MovieGrid) visibleRows() int {
	rows := (g.height - 2) / cardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (g *MovieGrid) clampOffset() {
	row := g.cursor / g.columns
	rows := g.visibleRows()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+rows {
		g.offset = row - rows + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// View renders the component.
func (g *MovieGrid) View() string {
	width := g.width
	if width <= 0 {
		width = 80
	}
	styles := tui.DefaultStyles()

	if len(g.items) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(tui.ColorMuted).
			Render(g.empty)
	}

	cardWidth := width/g.columns - 2
	if cardWidth < 8 {
		cardWidth = 8
	}

	var rows []string
	totalRows := (len(g.items) + g.columns - 1) / g.columns
	last := g.offset + g.visibleRows()
	if g.height <= 0 || last > totalRows {
		last = totalRows
	}

	for row := g.offset; row < last; row++ {
		var cards []string
		for col := 0; col < g.columns; col++ {
			i := row*g.columns + col
			if i >= len(g.items) {
				break
			}
			cards = append(cards, g.renderCard(g.items[i], cardWidth, i == g.cursor, styles))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return strings.Join(rows, "\n")
}

func (g *MovieGrid) renderCard(s movie.Snapshot, width int, selected bool, styles tui.Styles) string {
	title := tui.Truncate(s.Title, width-2)
	rating := styles.Rating.Render("★ " + s.Rating())

	style := styles.Unfocused
	if selected && g.focused {
		style = styles.Focused
		title = styles.Title.Render(title)
	}

	return style.Width(width).Render(title + "\n" + rating)
}

// Title returns the component title.
func (g *MovieGrid) Title() string {
	return g.title
}

// Focused returns true if focused.
func (g *MovieGrid) Focused() bool {
	return g.focused
}

// Focus sets the component as focused.
func (g *MovieGrid) Focus() {
	g.focused = true
}

// Blur removes focus.
func (g *MovieGrid) Blur() {
	g.focused = false
}

// SetSize sets dimensions.
func (g *MovieGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.clampOffset()
}

// Width returns the width.
func (g *MovieGrid) Width() int {
	return g.width
}

// Height returns the height.
func (g *MovieGrid) Height() int {
	return g.height
}
