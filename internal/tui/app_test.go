package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tessro/kodictl/internal/core"
)

type fakePlayer struct {
	core.Player
	enqueued []int
	err      error
}

func (f *fakePlayer) EnqueueTrack(_ context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, id)
	return nil
}

func testLibrary() *core.Library {
	lib := core.NewLibrary()
	lib.PutTrack(&core.Track{ID: 3, Title: "Blue in Green", Artist: "Miles Davis"})
	lib.PutTrack(&core.Track{ID: 1, Title: "So What", Artist: "Miles Davis"})
	lib.PutTrack(&core.Track{ID: 2, Title: "Blue Train", Artist: "John Coltrane"})
	return lib
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestFilterNarrowsMatches(t *testing.T) {
	m := NewModel(testLibrary(), &fakePlayer{})
	if got := len(m.Matches()); got != 3 {
		t.Fatalf("initial matches = %d, want 3", got)
	}

	m = typeText(m, "blue")
	// not applied until the debounce fires
	if got := len(m.Matches()); got != 3 {
		t.Fatalf("matches before debounce = %d, want 3", got)
	}

	m, _ = send(m, filterDebounceMsg{query: "blue"})
	matches := m.Matches()
	if len(matches) != 2 || matches[0].ID != 2 || matches[1].ID != 3 {
		t.Fatalf("matches = %v, want ids 2 and 3", matches)
	}

	// stale debounce is ignored
	m, _ = send(m, filterDebounceMsg{query: "blu"})
	if len(m.Matches()) != 2 {
		t.Errorf("stale filter applied")
	}
}

func TestEnterQueuesSelected(t *testing.T) {
	player := &fakePlayer{}
	m := NewModel(testLibrary(), player)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	if sel := m.Selected(); sel == nil || sel.ID != 2 {
		t.Fatalf("selected = %v, want id 2", sel)
	}

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	m, _ = send(m, cmd())

	if len(player.enqueued) != 1 || player.enqueued[0] != 2 {
		t.Errorf("enqueued = %v, want [2]", player.enqueued)
	}
	if q := m.Queued(); len(q) != 1 || q[0] != 2 {
		t.Errorf("Queued() = %v", q)
	}
	if !strings.Contains(m.View(), "Queued #2 Blue Train") {
		t.Errorf("status missing from view:\n%s", m.View())
	}
}

func TestEnqueueErrorShown(t *testing.T) {
	player := &fakePlayer{err: errors.New("connection refused")}
	m := NewModel(testLibrary(), player)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, cmd())

	if len(m.Queued()) != 0 {
		t.Errorf("failed enqueue recorded")
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("error missing from view:\n%s", m.View())
	}
}

func TestCursorBounds(t *testing.T) {
	m := NewModel(testLibrary(), &fakePlayer{})

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Selected().ID != 1 {
		t.Errorf("cursor moved above first row")
	}
	for range 5 {
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Selected().ID != 3 {
		t.Errorf("cursor moved past last row")
	}

	m = typeText(m, "zzz")
	m, _ = send(m, filterDebounceMsg{query: "zzz"})
	if m.Selected() != nil {
		t.Errorf("selection with no matches")
	}
	if m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil || len(m.Queued()) != 0 {
		t.Errorf("enter with no matches queued something")
	}
	if !strings.Contains(m.View(), "No songs match") {
		t.Errorf("empty state missing")
	}
}

func TestEscQuits(t *testing.T) {
	m := NewModel(testLibrary(), &fakePlayer{})
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("esc did not quit")
	}
	if m.View() != "" {
		t.Errorf("view after quit not empty")
	}
}
