package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/tui/components"
	"github.com/tessro/kodictl/internal/tui/styles"
)

const (
	filterDebounce = 150 * time.Millisecond
	enqueueTimeout = 10 * time.Second
	statusLifetime = 5 * time.Second
)

type filterDebounceMsg struct {
	query string
}

type enqueuedMsg struct {
	track *core.Track
	err   error
}

// Model is the library browser: a filter input over the cached songs and a
// cursor over the matches. Enter appends the selected song to Kodi's audio
// playlist.
type Model struct {
	lib    *core.Library
	player core.Player

	input   textinput.Model
	query   string
	matches []*core.Track
	cursor  int
	offset  int

	queued      []int
	status      string
	lastError   error
	statusUntil time.Time

	width    int
	height   int
	quitting bool
}

// NewModel creates a browser over lib that queues songs on player.
func NewModel(lib *core.Library, player core.Player) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by title or artist..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	return Model{
		lib:     lib,
		player:  player,
		input:   ti,
		matches: lib.SearchTracks(""),
		width:   80,
		height:  24,
	}
}

// Queued returns the ids of the songs queued during the session, in order.
func (m Model) Queued() []int {
	return m.queued
}

// Matches returns the songs matching the current filter.
func (m Model) Matches() []*core.Track {
	return m.matches
}

// Selected returns the song under the cursor, or nil when nothing matches.
func (m Model) Selected() *core.Track {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return nil
	}
	return m.matches[m.cursor]
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case filterDebounceMsg:
		if msg.query == m.input.Value() && msg.query != m.query {
			m.applyFilter(msg.query)
		}
		return m, nil

	case enqueuedMsg:
		m.statusUntil = time.Now().Add(statusLifetime)
		if msg.err != nil {
			m.lastError = msg.err
			m.status = ""
			return m, nil
		}
		m.lastError = nil
		m.queued = append(m.queued, msg.track.ID)
		m.status = fmt.Sprintf("Queued #%d %s", msg.track.ID, msg.track.Title)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if t := m.Selected(); t != nil {
			return m, m.enqueue(t)
		}
		return m, nil

	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil

	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil

	case "pgup":
		m.moveCursor(-m.visibleRows())
		return m, nil

	case "pgdown":
		m.moveCursor(m.visibleRows())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	query := m.input.Value()
	debounce := tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{query: query}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m *Model) applyFilter(query string) {
	m.query = query
	m.matches = m.lib.SearchTracks(query)
	m.cursor = 0
	m.offset = 0
}

func (m *Model) moveCursor(delta int) {
	if len(m.matches) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.matches)-1)
	m.clampOffset()
}

// clampOffset keeps the cursor inside the visible window.
func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// visibleRows is the number of result lines that fit under the header.
func (m Model) visibleRows() int {
	return max(m.height-8, 1)
}

func (m Model) enqueue(t *core.Track) tea.Cmd {
	player := m.player
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		return enqueuedMsg{track: t, err: player.EnqueueTrack(ctx, t.ID)}
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("Browse library"))
	b.WriteString(styles.Muted.Render(fmt.Sprintf("  %d of %d songs", len(m.matches), m.lib.TrackCount())))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(styles.Muted.Render("No songs match"))
		b.WriteString("\n")
	}

	rows := m.visibleRows()
	end := min(m.offset+rows, len(m.matches))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.matches[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderRow(t *core.Track, selected bool) string {
	id := fmt.Sprintf("%6d", t.ID)
	text := components.Truncate(fmt.Sprintf("%s — %s", t.Title, t.Artist), max(m.width-20, 10))

	if selected {
		return styles.Selected.Render("> "+id+"  "+text) + "  " + styles.Stars(t.Rating, core.MaxRating)
	}
	return "  " + styles.ID.Render(id) + "  " + text
}

func (m Model) renderStatusBar() string {
	help := styles.Dim.Render("↑/↓:move  PgUp/PgDn:page  Enter:queue  Esc:quit")

	if time.Now().Before(m.statusUntil) {
		if m.lastError != nil {
			return lipgloss.JoinHorizontal(lipgloss.Top, styles.Failure.Render("Error: "+m.lastError.Error()), "  ", help)
		}
		if m.status != "" {
			return lipgloss.JoinHorizontal(lipgloss.Top, styles.Playing.Render(m.status), "  ", help)
		}
	}
	return help
}

// Run starts the browser and returns the ids queued while it was open.
func Run(lib *core.Library, player core.Player) ([]int, error) {
	p := tea.NewProgram(NewModel(lib, player), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Queued(), nil
}
