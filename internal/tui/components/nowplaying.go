package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/tui/styles"
)

// NowPlaying renders the song Kodi is currently playing.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. A zero height lets the content size the panel.
func (n *NowPlaying) Render(state *core.PlaybackState, width, height int) string {
	title := styles.PanelTitle("Now Playing", true)

	var content string
	if !state.HasTrack() {
		content = styles.Muted.Render("Nothing is playing")
	} else {
		content = n.renderTrack(state, width-4)
	}

	panel := styles.Panel(true).Width(width)
	if height > 0 {
		panel = panel.Height(height)
	}

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying)
	title := styles.Title.Width(max(width-4, 1)).Render(track.Title)

	artist := styles.Subtitle.Render(track.Artist)
	album := styles.Dim.Render(track.Album)
	if track.Year > 0 {
		album += styles.Dim.Render(fmt.Sprintf(" (%d)", track.Year))
	}

	// Room for the times on either side
	progressWidth := max(width-14, 10)
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(state.Progress),
		styles.ProgressBar(state.ProgressPercent(), progressWidth),
		formatDuration(track.Duration))

	stats := fmt.Sprintf("%s  %s  %s",
		styles.ID.Render(fmt.Sprintf("#%d", track.ID)),
		styles.Stars(track.Rating, core.MaxRating),
		styles.Muted.Render(fmt.Sprintf("played %d×", track.Playcount)))

	player := ""
	if state.Player != nil {
		player = fmt.Sprintf("player %d (%s)", state.Player.ID, state.Player.Type)
		if state.Volume > 0 {
			player += fmt.Sprintf("  🔊 %d%%", state.Volume)
		}
		player = styles.Muted.Render(player)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		progress,
		"",
		stats,
		player,
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
