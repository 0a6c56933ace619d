package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/tui/styles"
)

// Playlist renders Kodi's audio playlist.
type Playlist struct {
	offset int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// ScrollDown scrolls the playlist down
func (p *Playlist) ScrollDown() {
	p.offset++
}

// ScrollUp scrolls the playlist up
func (p *Playlist) ScrollUp() {
	if p.offset > 0 {
		p.offset--
	}
}

// Render renders the playlist panel showing at most maxLines entries.
func (p *Playlist) Render(queue *core.Queue, width, maxLines int) string {
	title := styles.PanelTitle(fmt.Sprintf("Playlist (%d)", queue.Len()), true)

	var content string
	if queue.IsEmpty() {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = p.renderEntries(queue, width-4, maxLines)
	}

	return styles.Panel(true).Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (p *Playlist) renderEntries(queue *core.Queue, width, maxLines int) string {
	tracks := queue.Tracks

	if p.offset >= len(tracks) {
		p.offset = 0
	}

	// Leave room for the "more" indicator
	visible := max(maxLines-1, 1)
	start := p.offset
	end := min(start+visible, len(tracks))

	lines := make([]string, 0, end-start+1)

	// "XX. " + "▶ " + " — "
	const overhead = 9

	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%2d.", i+1)
		title, artist := fit(track.Title, track.Artist, width-overhead)

		var line string
		if i == queue.CurrentIndex {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s — %s", num, title, artist))
		} else {
			line = fmt.Sprintf("%s   %s — %s",
				styles.Dim.Render(num),
				title,
				styles.Muted.Render(artist))
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fit shortens title and artist to share available columns. The artist keeps
// at least a third of the space.
func fit(title, artist string, available int) (string, string) {
	if len(title)+len(artist) <= available {
		return title, artist
	}
	artistSpace := max(available/3, 10)
	artistSpace = min(artistSpace, available-10, len(artist))
	return Truncate(title, available-artistSpace), Truncate(artist, artistSpace)
}

// Truncate shortens s to n bytes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
