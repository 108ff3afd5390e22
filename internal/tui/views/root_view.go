package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/marquee/internal/tui"
)

// Tab is one of the top-level screens.
type Tab int

const (
	TabSearch Tab = iota
	TabFavorites
)

var tabNames = []string{"Search", "Favorites"}

// statusTimeout is how long a status line stays visible.
const statusTimeout = 3 * time.Second

type clearStatusMsg struct {
	Seq int
}

// RootView hosts the tabs and a stack of detail screens per tab.
// Whichever screen becomes visible, by tab switch or by popping the stack,
// receives a tui.FocusMsg.
type RootView struct {
	width  int
	height int

	deps Deps
	keys KeyMap
	help help.Model

	tab       Tab
	search    *SearchView
	favorites *FavoritesView
	stacks    [2][]*DetailView

	showHelp  bool
	status    string
	statusSeq int
}

// NewRootView creates the root view with the search tab visible.
func NewRootView(deps Deps) *RootView {
	deps = deps.withDefaults()

	return &RootView{
		deps:      deps,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		tab:       TabSearch,
		search:    NewSearchView(deps),
		favorites: NewFavoritesView(deps),
	}
}

// Init initializes the view.
func (v *RootView) Init() tea.Cmd {
	return v.search.Init()
}

// Update handles messages.
func (v *RootView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tui.OpenMovieMsg:
		return v, v.push(msg.ID)

	case tui.BackMsg:
		return v, v.pop()

	case tui.StatusMsg:
		v.statusSeq++
		v.status = msg.Text
		seq := v.statusSeq
		return v, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{Seq: seq}
		})

	case clearStatusMsg:
		if msg.Seq == v.statusSeq {
			v.status = ""
		}
		return v, nil

	case tui.FocusMsg, tui.BlurMsg, tui.RefreshMsg:
		return v, update(v.current(), msg)
	}

	return v, v.broadcast(msg)
}

func (v *RootView) handleKeyMsg(msg tea.KeyMsg) (tui.Component, tea.Cmd) {
	if key.Matches(msg, v.keys.ForceQuit) {
		return v, tea.Quit
	}

	if v.showHelp {
		if key.Matches(msg, v.keys.Help) || msg.Type == tea.KeyEsc {
			v.showHelp = false
		}
		return v, nil
	}

	current := v.current()
	if c, ok := current.(capturer); ok && c.Capturing() && !key.Matches(msg, v.keys.NextTab) {
		return v, update(current, msg)
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		if v.depth() > 0 {
			return v, v.pop()
		}
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back):
		if v.depth() > 0 {
			return v, v.pop()
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelp = true
		return v, nil
	case key.Matches(msg, v.keys.SearchTab):
		return v, v.SwitchTab(TabSearch)
	case key.Matches(msg, v.keys.FavoritesTab):
		return v, v.SwitchTab(TabFavorites)
	case key.Matches(msg, v.keys.NextTab):
		return v, v.SwitchTab((v.tab + 1) % Tab(len(tabNames)))
	}

	return v, update(current, msg)
}

// SwitchTab makes tab visible and sends it a FocusMsg.
func (v *RootView) SwitchTab(tab Tab) tea.Cmd {
	if tab == v.tab {
		return nil
	}
	blur := update(v.current(), tui.BlurMsg{})
	v.tab = tab
	return tea.Batch(blur, update(v.current(), tui.FocusMsg{}))
}

func (v *RootView) push(id int64) tea.Cmd {
	blur := update(v.current(), tui.BlurMsg{})

	detail := NewDetailView(id, v.deps)
	detail.SetSize(v.contentSize())
	detail.Focus()
	v.stacks[v.tab] = append(v.stacks[v.tab], detail)

	return tea.Batch(blur, detail.Init())
}

func (v *RootView) pop() tea.Cmd {
	stack := v.stacks[v.tab]
	if len(stack) == 0 {
		return nil
	}

	top := stack[len(stack)-1]
	stack[len(stack)-1] = nil
	v.stacks[v.tab] = stack[:len(stack)-1]

	blur := update(top, tui.BlurMsg{})
	return tea.Batch(blur, update(v.current(), tui.FocusMsg{}))
}

// broadcast delivers an async result to every live screen. Each screen
// ignores results it did not ask for.
func (v *RootView) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{
		update(v.search, msg),
		update(v.favorites, msg),
	}
	for _, stack := range v.stacks {
		for _, d := range stack {
			cmds = append(cmds, update(d, msg))
		}
	}
	return tea.Batch(cmds...)
}

func (v *RootView) current() tui.Component {
	if stack := v.stacks[v.tab]; len(stack) > 0 {
		return stack[len(stack)-1]
	}
	if v.tab == TabFavorites {
		return v.favorites
	}
	return v.search
}

func (v *RootView) depth() int {
	return len(v.stacks[v.tab])
}

func (v *RootView) contentSize() (int, int) {
	// tab bar, help bar and status bar
	return v.width, max(v.height-3, 1)
}

// View renders the view.
func (v *RootView) View() string {
	if v.showHelp {
		return lipgloss.NewStyle().
			Width(v.width).
			Height(v.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(tui.RenderBorder(v.help.FullHelpView(v.keys.FullHelp()), 0, 0, true))
	}

	body := lipgloss.NewStyle().
		Height(max(v.height-3, 0)).
		MaxHeight(max(v.height-3, 0)).
		Render(v.current().View())

	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderTabBar(),
		body,
		v.help.ShortHelpView(v.keys.ShortHelp()),
		v.renderStatusBar(),
	)
}

func (v *RootView) renderTabBar() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorTitle).Background(tui.ColorAccent).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")).Padding(0, 1)

	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == v.tab {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	bar := strings.Join(tabs, " ")
	if crumbs := v.breadcrumbs(); crumbs != "" {
		bar += tui.DefaultStyles().Muted.Render("  " + crumbs)
	}
	return bar
}

func (v *RootView) breadcrumbs() string {
	stack := v.stacks[v.tab]
	if len(stack) == 0 {
		return ""
	}
	names := make([]string, 0, len(stack))
	for _, d := range stack {
		names = append(names, tui.Truncate(d.Title(), 24))
	}
	return "› " + strings.Join(names, " › ")
}

func (v *RootView) renderStatusBar() string {
	style := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("236")).
		Padding(0, 1)
	return style.Render(v.status)
}

// Tab returns the visible tab.
func (v *RootView) Tab() Tab {
	return v.tab
}

// Current returns the visible screen.
func (v *RootView) Current() tui.Component {
	return v.current()
}

// Depth returns the number of detail screens stacked on the visible tab.
func (v *RootView) Depth() int {
	return v.depth()
}

// Search returns the search screen.
func (v *RootView) Search() *SearchView {
	return v.search
}

// Favorites returns the favorites screen.
func (v *RootView) Favorites() *FavoritesView {
	return v.favorites
}

// Status returns the status line.
func (v *RootView) Status() string {
	return v.status
}

// ShowingHelp reports whether the help overlay is visible.
func (v *RootView) ShowingHelp() bool {
	return v.showHelp
}

// Title returns the view title.
func (v *RootView) Title() string {
	return "Marquee"
}

// Focused returns true; the root view always has focus.
func (v *RootView) Focused() bool {
	return true
}

// Focus is a no-op.
func (v *RootView) Focus() {}

// Blur is a no-op.
func (v *RootView) Blur() {}

// SetSize sets dimensions and resizes every screen.
func (v *RootView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width

	w, h := v.contentSize()
	v.search.SetSize(w, h)
	v.favorites.SetSize(w, h)
	for _, stack := range v.stacks {
		for _, d := range stack {
			d.SetSize(w, h)
		}
	}
}

// Width returns the width.
func (v *RootView) Width() int {
	return v.width
}

// Height returns the height.
func (v *RootView) Height() int {
	return v.height
}
