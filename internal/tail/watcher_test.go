package tail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tessro/kodictl/internal/core"
)

func song(id int, minutes int) *core.Track {
	return &core.Track{
		ID:       id,
		Title:    "Song " + string(rune('A'+id)),
		Artist:   "Artist",
		Duration: time.Duration(minutes) * time.Minute,
	}
}

func playing(t *core.Track, progress time.Duration) *core.PlaybackState {
	return &core.PlaybackState{
		Track:     t,
		Player:    &core.ActivePlayer{ID: 0, Type: "audio"},
		IsPlaying: true,
		Progress:  progress,
		Volume:    50,
	}
}

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiffStates(t *testing.T) {
	a, b := song(1, 4), song(2, 3)
	idle := &core.PlaybackState{Volume: 50}

	paused := playing(a, time.Minute)
	paused.IsPlaying = false

	louder := playing(a, time.Minute)
	louder.Volume = 80

	otherPlayer := playing(a, time.Minute)
	otherPlayer.Player = &core.ActivePlayer{ID: 2, Type: "audio"}

	tests := []struct {
		name string
		prev *core.PlaybackState
		curr *core.PlaybackState
		want []EventType
	}{
		{"first poll playing", nil, playing(a, 0), []EventType{EventTrackChange}},
		{"first poll idle", nil, idle, nil},
		{"nil current", playing(a, 0), nil, nil},
		{"same song", playing(a, time.Minute), playing(a, 2*time.Minute), nil},
		{"skip", playing(a, time.Minute), playing(b, 0), []EventType{EventTrackSkip, EventTrackChange}},
		{"complete", playing(a, 3*time.Minute+50*time.Second), playing(b, 0), []EventType{EventTrackComplete, EventTrackChange}},
		{"stop", playing(a, time.Minute), idle, []EventType{EventPlayerChange, EventStop}},
		{"start", idle, playing(a, 0), []EventType{EventPlayerChange, EventTrackChange}},
		{"pause", playing(a, time.Minute), paused, []EventType{EventPause}},
		{"resume", paused, playing(a, time.Minute), []EventType{EventResume}},
		{"volume", playing(a, time.Minute), louder, []EventType{EventVolumeChange}},
		{"player replaced", playing(a, time.Minute), otherPlayer, []EventType{EventPlayerChange}},
		{"idle stays idle", idle, &core.PlaybackState{Volume: 50}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStates(tt.prev, tt.curr, time.Now()))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("events[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWasCompletedUnknownDuration(t *testing.T) {
	s := playing(&core.Track{ID: 7}, time.Hour)
	if wasCompleted(s) {
		t.Error("song without duration should never count as completed")
	}
}

func TestEventSong(t *testing.T) {
	a, b := song(1, 4), song(2, 3)
	e := Event{Type: EventTrackSkip, Previous: playing(a, 0), Current: playing(b, 0)}
	if got := e.Song(); got != a {
		t.Errorf("skip Song() = %v, want previous song", got)
	}
	e.Type = EventTrackChange
	if got := e.Song(); got != b {
		t.Errorf("change Song() = %v, want current song", got)
	}
}

// scriptedPlayer returns one state per poll and cancels once the script is
// exhausted.
type scriptedPlayer struct {
	core.Player
	mu     sync.Mutex
	states []*core.PlaybackState
	errs   map[int]error
	polls  int
	cancel context.CancelFunc
}

func (p *scriptedPlayer) GetState(context.Context) (*core.PlaybackState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.polls
	p.polls++
	if err := p.errs[i]; err != nil {
		return nil, err
	}
	if i >= len(p.states) {
		p.cancel()
		return p.states[len(p.states)-1], nil
	}
	return p.states[i], nil
}

type skipLog struct {
	mu    sync.Mutex
	songs []int
	err   error
}

func (s *skipLog) Skip(_ context.Context, profileID string, songID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profileID != "CAABC" {
		return errors.New("wrong profile " + profileID)
	}
	s.songs = append(s.songs, songID)
	return s.err
}

func TestFollowReportsSkips(t *testing.T) {
	a, b, c := song(1, 4), song(2, 3), song(3, 5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	player := &scriptedPlayer{
		states: []*core.PlaybackState{
			playing(a, 0),
			playing(a, time.Minute),
			nil, // poll fails
			playing(b, 0),
			playing(b, 2*time.Minute+55*time.Second),
			playing(c, 0),
		},
		errs:   map[int]error{2: errors.New("connection refused")},
		cancel: cancel,
	}

	w := NewWatcher(player, time.Millisecond)
	skips := &skipLog{}
	var out bytes.Buffer

	if err := Follow(ctx, w, NewFormatter(WithEmoji(false)), &out, &AutoSkip{Recorder: skips, ProfileID: "CAABC"}); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	if len(skips.songs) != 1 || skips.songs[0] != 1 {
		t.Errorf("reported skips = %v, want [1]", skips.songs)
	}

	want := []string{
		"Now playing: Artist - Song B [1]",
		"Skipped: Artist - Song B [1]",
		"Now playing: Artist - Song C [2]",
		"Finished: Artist - Song C [2]",
		"Now playing: Artist - Song D [3]",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("output lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFollowWithoutAutoSkip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	player := &scriptedPlayer{
		states: []*core.PlaybackState{playing(song(1, 4), 0), playing(song(2, 4), 0)},
		cancel: cancel,
	}
	var out bytes.Buffer
	if err := Follow(ctx, NewWatcher(player, time.Millisecond), NewFormatter(), &out, nil); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	if !strings.Contains(out.String(), "⏭️ Skipped: Artist - Song B [1]") {
		t.Errorf("output = %q, want skip line", out.String())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w := NewWatcher(&scriptedPlayer{}, 0)
	w.Stop()
	w.Stop()
	if w.interval != time.Second {
		t.Errorf("interval = %v, want default 1s", w.interval)
	}
}
