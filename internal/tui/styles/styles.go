package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background.
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#7C3AED"}
	Secondary = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	Accent    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}

	Success = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	Warning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	Error   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	Info    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}

	Border    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}
	Text      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextDim   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}

	// Kodi blue
	KodiBlue = lipgloss.Color("#17B2E7")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	ID = lipgloss.NewStyle().
		Foreground(Accent)

	Playing = lipgloss.NewStyle().
		Foreground(KodiBlue)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	Failure = lipgloss.NewStyle().
		Foreground(Error)

	Rating = lipgloss.NewStyle().
		Foreground(Accent)

	Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
)

// ApplyTheme forces a light or dark palette. "auto" leaves detection to lipgloss.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// Panel returns a bordered panel style.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar renders a plain bar for a percentage in [0,100].
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// Stars renders a 0..max rating as filled and empty stars.
func Stars(rating, maxRating int) string {
	rating = min(max(rating, 0), maxRating)
	return Rating.Render(strings.Repeat("★", rating)) +
		Dim.Render(strings.Repeat("☆", maxRating-rating))
}
