package components

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tessro/kodictl/internal/core"
)

func TestProgressNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)

	for i := 0; i <= 2000; i += 20 {
		p.Update("songs", i, 2000)
	}
	p.Update("albums", 5, 10)
	p.Done()

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// one line per tenth for songs, plus the albums line
	if len(lines) != 12 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "songs: 0/2,000 (0%)" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[10] != "songs: 2,000/2,000 (100%)" {
		t.Errorf("last songs line = %q", lines[10])
	}
	if lines[11] != "albums: 5/10 (50%)" {
		t.Errorf("albums line = %q", lines[11])
	}
}

func TestProgressEmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)
	p.Update("songs", 0, 0)
	if got := strings.TrimSpace(buf.String()); got != "songs: 0/0 (100%)" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPlaylistRender(t *testing.T) {
	q := &core.Queue{
		Tracks: []core.Track{
			{ID: 1, Title: "One", Artist: "A"},
			{ID: 2, Title: "Two", Artist: "B"},
			{ID: 3, Title: "Three", Artist: "C"},
		},
		CurrentIndex: 1,
	}

	out := NewPlaylist().Render(q, 60, 2)
	if !strings.Contains(out, "Playlist (3)") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "▶ Two") {
		t.Errorf("current entry not marked:\n%s", out)
	}
	if !strings.Contains(out, "and 2 more") {
		t.Errorf("missing more indicator:\n%s", out)
	}

	empty := NewPlaylist().Render(&core.Queue{CurrentIndex: -1}, 60, 10)
	if !strings.Contains(empty, "Playlist is empty") {
		t.Errorf("empty playlist:\n%s", empty)
	}
}

func TestNowPlayingRender(t *testing.T) {
	np := NewNowPlaying()

	if out := np.Render(nil, 60, 0); !strings.Contains(out, "Nothing is playing") {
		t.Errorf("idle render:\n%s", out)
	}

	state := &core.PlaybackState{
		Track: &core.Track{
			ID:       42,
			Title:    "Blue Train",
			Artist:   "John Coltrane",
			Album:    "Blue Train",
			Year:     1957,
			Rating:   4,
			Duration: 10 * time.Minute,
		},
		Player:    &core.ActivePlayer{ID: 0, Type: "audio"},
		IsPlaying: true,
		Progress:  90 * time.Second,
		Volume:    80,
	}
	out := np.Render(state, 70, 0)
	for _, want := range []string{"Blue Train", "John Coltrane", "#42", "1:30", "10:00", "80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
