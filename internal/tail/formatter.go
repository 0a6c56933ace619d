package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/core"
)

var eventInfo = map[EventType]struct {
	name  string
	emoji string
}{
	EventTrackChange:   {"track_change", "🎵"},
	EventTrackComplete: {"track_complete", "✅"},
	EventTrackSkip:     {"track_skip", "⏭️"},
	EventStop:          {"stop", "⏹️"},
	EventPause:         {"pause", "⏸️"},
	EventResume:        {"resume", "▶️"},
	EventVolumeChange:  {"volume_change", "🔊"},
	EventPlayerChange:  {"player_change", "📺"},
}

// String returns the event type's snake_case name.
func (t EventType) String() string {
	if info, ok := eventInfo[t]; ok {
		return info.name
	}
	return "unknown"
}

func (t EventType) emoji() string {
	if info, ok := eventInfo[t]; ok {
		return info.emoji
	}
	return "❓"
}

// Formatter renders events as lines of text.
type Formatter struct {
	emoji     bool
	timestamp bool
	json      bool
	template  *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji prefixes lines with the event's emoji.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) { f.emoji = enabled }
}

// WithTimestamp prefixes lines with the wall clock time.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) { f.timestamp = enabled }
}

// WithJSON renders one JSON object per event.
func WithJSON(enabled bool) FormatterOption {
	return func(f *Formatter) { f.json = enabled }
}

// NewFormatter creates a formatter. Emoji are on by default.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{emoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetTemplate installs a text/template used instead of the default line.
// Fields are those of EventData.
func (f *Formatter) SetTemplate(tmpl string) error {
	if tmpl == "" {
		f.template = nil
		return nil
	}
	t, err := template.New("event").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	f.template = t
	return nil
}

// EventData is the flattened view of an event handed to templates and
// JSON output.
type EventData struct {
	Type      string    `json:"type"`
	Emoji     string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"-"`
	SongID    int       `json:"songid,omitempty"`
	Title     string    `json:"title,omitempty"`
	Artist    string    `json:"artist,omitempty"`
	Album     string    `json:"album,omitempty"`
	PlayerID  int       `json:"playerid,omitempty"`
	Playing   bool      `json:"playing"`
	Volume    int       `json:"volume"`
}

// Data flattens e.
func Data(e Event) EventData {
	d := EventData{
		Type:      e.Type.String(),
		Emoji:     e.Type.emoji(),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}
	if t := e.Song(); t != nil {
		d.SongID = t.ID
		d.Title = t.Title
		d.Artist = t.Artist
		d.Album = t.Album
	}
	if e.Current != nil {
		if e.Current.Player != nil {
			d.PlayerID = e.Current.Player.ID
		}
		d.Playing = e.Current.IsPlaying
		d.Volume = e.Current.Volume
	}
	return d
}

// Format renders e without a trailing newline.
func (f *Formatter) Format(e Event) string {
	switch {
	case f.json:
		b, err := json.Marshal(Data(e))
		if err == nil {
			return string(b)
		}
	case f.template != nil:
		var buf bytes.Buffer
		if err := f.template.Execute(&buf, Data(e)); err == nil {
			return buf.String()
		}
	}
	return f.line(e)
}

func (f *Formatter) line(e Event) string {
	var parts []string
	if f.timestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.emoji {
		parts = append(parts, e.Type.emoji())
	}
	parts = append(parts, describe(e))
	return strings.Join(parts, " ")
}

func songLabel(t *core.Track) string {
	return fmt.Sprintf("%s - %s [%d]", t.Artist, t.Title, t.ID)
}

func describe(e Event) string {
	song := e.Song()
	switch e.Type {
	case EventTrackChange:
		if song != nil {
			return "Now playing: " + songLabel(song)
		}
		return "Song changed"
	case EventTrackComplete:
		if song != nil {
			return "Finished: " + songLabel(song)
		}
		return "Song finished"
	case EventTrackSkip:
		if song != nil {
			return "Skipped: " + songLabel(song)
		}
		return "Song skipped"
	case EventStop:
		if song != nil {
			return "Stopped: " + songLabel(song)
		}
		return "Stopped"
	case EventPause:
		return "Paused"
	case EventResume:
		return "Resumed"
	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"
	case EventPlayerChange:
		if e.Current != nil && e.Current.Player != nil {
			return fmt.Sprintf("Audio player %d active", e.Current.Player.ID)
		}
		return "Audio player gone"
	default:
		return "Unknown event"
	}
}
