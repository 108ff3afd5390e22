package harness

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/marquee/internal/app"
	"github.com/artpar/marquee/internal/tui/views"
)

// cmdTimeout bounds a single command. Slower ones (status ticks) are dropped.
const cmdTimeout = 500 * time.Millisecond

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession represents an active TUI test session.
type TUISession struct {
	runner *TUIRunner
	model  *views.RootView
	t      *testing.T

	mu     sync.Mutex
	copied []string
}

// Start starts a new TUI session backed by the harness data directory.
func (r *TUIRunner) Start(t *testing.T) *TUISession {
	t.Helper()
	return r.StartWithSize(t, 120, 40)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, width, height int) *TUISession {
	t.Helper()

	cfg := r.harness.Config()
	application, err := app.New(cfg)
	if err != nil {
		t.Fatalf("Failed to open app: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	s := &TUISession{runner: r, t: t}
	s.model = views.NewRootView(views.Deps{
		Favorites:      application.Favorites(),
		Catalog:        application.Catalog(),
		StorageTimeout: cfg.StorageTimeout,
		RequestTimeout: cfg.Timeout,
		Copy: func(text string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.copied = append(s.copied, text)
			return nil
		},
	})
	s.model.SetSize(width, height)
	s.executeCmd(s.model.Init())

	return s
}

// SendKey sends a key press.
func (s *TUISession) SendKey(key string) *TUISession {
	s.send(parseKeyMsg(key))
	return s
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// Type sends a sequence of rune keys.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		s.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return s
}

// Send delivers an arbitrary message, such as a focus event.
func (s *TUISession) Send(msg tea.Msg) *TUISession {
	s.send(msg)
	return s
}

func (s *TUISession) send(msg tea.Msg) {
	_, cmd := s.model.Update(msg)
	s.executeCmd(cmd)
}

// executeCmd runs cmd and every command it produces, feeding each
// resulting message back into the model.
func (s *TUISession) executeCmd(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg, ok := execute(next)
		if !ok || msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}

		_, follow := s.model.Update(msg)
		queue = append(queue, follow)
	}
}

func execute(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// Wait pauses for the specified duration.
func (s *TUISession) Wait(d time.Duration) *TUISession {
	time.Sleep(d)
	return s
}

// WaitForOutput waits for specific text in output.
func (s *TUISession) WaitForOutput(text string) error {
	timeout := s.runner.harness.timeout
	deadline := time.Now().Add(timeout)
	pollInterval := 100 * time.Millisecond

	for time.Now().Before(deadline) {
		if strings.Contains(s.Output(), text) {
			return nil
		}
		time.Sleep(pollInterval)
	}

	return &TimeoutError{text: text, timeout: timeout}
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Model returns the underlying RootView for direct assertions.
func (s *TUISession) Model() *views.RootView {
	return s.model
}

// ShowingHelp returns true if help overlay is visible.
func (s *TUISession) ShowingHelp() bool {
	return s.model.ShowingHelp()
}

// Copied returns the text sent to the clipboard so far.
func (s *TUISession) Copied() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.copied...)
}

// TimeoutError represents a timeout waiting for output.
type TimeoutError struct {
	text    string
	timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "timeout after " + e.timeout.String() + " waiting for: " + e.text
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
