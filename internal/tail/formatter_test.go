package tail

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/kodictl/internal/core"
)

func TestFormatLine(t *testing.T) {
	at := time.Date(2026, 3, 1, 21, 4, 5, 0, time.UTC)
	a, b := song(1, 4), song(2, 3)
	idle := &core.PlaybackState{Volume: 30}

	tests := []struct {
		name  string
		event Event
		opts  []FormatterOption
		want  string
	}{
		{
			name:  "track change with emoji",
			event: Event{Type: EventTrackChange, Timestamp: at, Current: playing(a, 0)},
			want:  "🎵 Now playing: Artist - Song B [1]",
		},
		{
			name:  "skip names previous song",
			event: Event{Type: EventTrackSkip, Timestamp: at, Previous: playing(a, 0), Current: playing(b, 0)},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Skipped: Artist - Song B [1]",
		},
		{
			name:  "timestamp",
			event: Event{Type: EventPause, Timestamp: at, Current: playing(a, 0)},
			opts:  []FormatterOption{WithEmoji(false), WithTimestamp(true)},
			want:  "21:04:05 Paused",
		},
		{
			name:  "volume",
			event: Event{Type: EventVolumeChange, Timestamp: at, Current: idle},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Volume: 30%",
		},
		{
			name:  "player gone",
			event: Event{Type: EventPlayerChange, Timestamp: at, Previous: playing(a, 0), Current: idle},
			opts:  []FormatterOption{WithEmoji(false)},
			want:  "Audio player gone",
		},
		{
			name:  "stop",
			event: Event{Type: EventStop, Timestamp: at, Previous: playing(a, 0), Current: idle},
			want:  "⏹️ Stopped: Artist - Song B [1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewFormatter(tt.opts...).Format(tt.event); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	f := NewFormatter()
	if err := f.SetTemplate("{{.Type}} {{.SongID}} {{.Title}} vol={{.Volume}}"); err != nil {
		t.Fatalf("SetTemplate() error = %v", err)
	}
	e := Event{Type: EventTrackChange, Timestamp: time.Now(), Current: playing(song(4, 3), 0)}
	if got, want := f.Format(e), "track_change 4 Song E vol=50"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	if err := f.SetTemplate("{{.Nope"); err == nil {
		t.Error("SetTemplate() with broken template should fail")
	}
}

func TestFormatTemplateFallsBackOnExecError(t *testing.T) {
	f := NewFormatter(WithEmoji(false))
	if err := f.SetTemplate("{{.Missing}}"); err != nil {
		t.Fatalf("SetTemplate() error = %v", err)
	}
	if got := f.Format(Event{Type: EventResume}); got != "Resumed" {
		t.Errorf("Format() = %q, want fallback line", got)
	}
}

func TestFormatJSON(t *testing.T) {
	f := NewFormatter(WithJSON(true))
	e := Event{
		Type:      EventTrackSkip,
		Timestamp: time.Date(2026, 3, 1, 21, 4, 5, 0, time.UTC),
		Previous:  playing(song(1, 4), 0),
		Current:   playing(song(2, 3), 0),
	}
	got := f.Format(e)
	for _, want := range []string{`"type":"track_skip"`, `"songid":1`, `"title":"Song B"`, `"playing":true`, `"volume":50`} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() = %s, missing %s", got, want)
		}
	}
	if strings.Contains(got, "Emoji") {
		t.Errorf("Format() = %s, emoji should not be serialized", got)
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventPlayerChange.String(); got != "player_change" {
		t.Errorf("String() = %q", got)
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
