package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/artpar/marquee/internal/catalog"
	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/kv"
	"github.com/artpar/marquee/internal/tui"
)

// cmdTimeout bounds a single command; longer ones (status ticks) are dropped.
const cmdTimeout = 250 * time.Millisecond

type fixture struct {
	server *catalog.TestServer
	kv     *kv.MemoryStore
	favs   *favorites.Service
	copied []string
	deps   Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		server: catalog.NewTestServer(t),
		kv:     kv.NewMemoryStore(),
	}
	f.favs = favorites.NewService(f.kv)
	f.deps = Deps{
		Favorites:      f.favs,
		Catalog:        f.server.Client(),
		StorageTimeout: time.Second,
		RequestTimeout: 5 * time.Second,
		Copy: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
	}
	return f
}

// run executes cmd the way the bubbletea runtime would and feeds every
// resulting message back into c until no commands remain.
func run(t *testing.T, c tui.Component, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("commands did not settle")
		}

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

		seen = append(seen, msg)
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, follow := c.Update(msg)
		queue = append(queue, follow)
	}
	return seen
}

// send delivers msg to c and runs the resulting commands.
func send(t *testing.T, c tui.Component, msg tea.Msg) []tea.Msg {
	t.Helper()
	_, cmd := c.Update(msg)
	return run(t, c, cmd)
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

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func hasQuit(msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}
