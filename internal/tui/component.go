package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is the interface for all TUI screens and panes.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// Focused returns true if the component is focused.
	Focused() bool

	// Focus sets the component as focused.
	Focus()

	// Blur removes focus from the component.
	Blur()

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// Messages

// FocusMsg is sent when a screen becomes the visible one.
// Screens that mirror persisted state reload on every FocusMsg, not just the first.
type FocusMsg struct{}

// BlurMsg is sent when a screen stops being the visible one.
type BlurMsg struct{}

// RefreshMsg asks a screen to reload its data.
type RefreshMsg struct{}

// OpenMovieMsg requests navigation to the detail screen of a movie.
type OpenMovieMsg struct {
	ID int64
}

// BackMsg requests navigation to the previous screen.
type BackMsg struct{}

// StatusMsg flashes a short line in the status bar.
type StatusMsg struct {
	Text string
}

// Status returns a command that emits a StatusMsg.
func Status(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return StatusMsg{Text: text}
	}
}

// OpenMovie returns a command that emits an OpenMovieMsg.
func OpenMovie(id int64) tea.Cmd {
	return func() tea.Msg {
		return OpenMovieMsg{ID: id}
	}
}

// BaseComponent provides common functionality for components.
type BaseComponent struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBaseComponent creates a new base component.
func NewBaseComponent(title string) *BaseComponent {
	return &BaseComponent{
		title: title,
	}
}

// Init initializes the component.
func (c *BaseComponent) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (c *BaseComponent) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	case FocusMsg:
		c.focused = true
	case BlurMsg:
		c.focused = false
	}
	return c, nil
}

// View renders a placeholder box with the title.
func (c *BaseComponent) View() string {
	return RenderBorder(fmt.Sprintf("[ %s ]", c.title), c.width, c.height, c.focused)
}

// Title returns the component title.
func (c *BaseComponent) Title() string {
	return c.title
}

// Focused returns true if focused.
func (c *BaseComponent) Focused() bool {
	return c.focused
}

// Focus sets the component as focused.
func (c *BaseComponent) Focus() {
	c.focused = true
}

// Blur removes focus.
func (c *BaseComponent) Blur() {
	c.focused = false
}

// SetSize sets dimensions.
func (c *BaseComponent) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the width.
func (c *BaseComponent) Width() int {
	return c.width
}

// Height returns the height.
func (c *BaseComponent) Height() int {
	return c.height
}

// Styles

// Palette colors shared by every screen.
const (
	ColorAccent = lipgloss.Color("62")
	ColorMuted  = lipgloss.Color("240")
	ColorTitle  = lipgloss.Color("229")
	ColorRating = lipgloss.Color("220")
	ColorHeart  = lipgloss.Color("204")
	ColorError  = lipgloss.Color("196")
)

// Styles groups the common lipgloss styles.
type Styles struct {
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Rating    lipgloss.Style
	Heart     lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns default styling.
func DefaultStyles() Styles {
	return Styles{
		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent),
		Unfocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTitle),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Rating: lipgloss.NewStyle().Foreground(ColorRating).Bold(true),
		Heart:  lipgloss.NewStyle().Foreground(ColorHeart),
		Error:  lipgloss.NewStyle().Foreground(ColorError),
	}
}

// RenderTitle renders a title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true)

	if focused {
		style = style.Foreground(ColorTitle).
			Background(ColorAccent)
	} else {
		style = style.Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	}

	return style.Render(title)
}

// RenderBorder renders content with a border.
func RenderBorder(content string, width, height int, focused bool) string {
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder())
	if width > 2 {
		style = style.Width(width - 2)
	}
	if height > 2 {
		style = style.Height(height - 2)
	}

	if focused {
		style = style.BorderForeground(ColorAccent)
	} else {
		style = style.BorderForeground(ColorMuted)
	}

	return style.Render(content)
}

// Truncate truncates a string to fit within a width, counting runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// PadRight pads a string to a given width, counting runes.
func PadRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
