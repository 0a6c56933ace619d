// Package tail follows Kodi's audio player and turns state polls into
// playback events.
package tail

import (
	"context"
	"sync"
	"time"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/logging"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventStop
	EventPause
	EventResume
	EventVolumeChange
	EventPlayerChange
)

// completedFraction is the share of a song that must have played for a
// change to count as a completion rather than a skip.
const completedFraction = 0.95

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// Song returns the song the event is about: the finished one for
// completions, skips and stops, the current one otherwise.
func (e Event) Song() *core.Track {
	switch e.Type {
	case EventTrackComplete, EventTrackSkip, EventStop:
		if e.Previous != nil {
			return e.Previous.Track
		}
		return nil
	default:
		if e.Current != nil {
			return e.Current.Track
		}
		return nil
	}
}

// Watcher polls a player and emits events on a buffered channel. Events are
// dropped when the consumer falls behind.
type Watcher struct {
	player   core.Player
	interval time.Duration
	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher polling player every interval.
func NewWatcher(player core.Player, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		player:   player,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events. It is closed when Start returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start polls until ctx is cancelled or Stop is called. Poll failures are
// logged and retried on the next tick.
func (w *Watcher) Start(ctx context.Context) error {
	log := logging.Ctx(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev, err := w.player.GetState(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("initial player poll failed")
		prev = nil
	}
	w.emit(diffStates(nil, prev, time.Now()))

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case now := <-ticker.C:
			curr, err := w.player.GetState(ctx)
			if err != nil {
				failures++
				log.Debug().Err(err).Int("failures", failures).Msg("player poll failed")
				continue
			}
			if failures > 0 {
				log.Debug().Int("failures", failures).Msg("player poll recovered")
				failures = 0
			}

			w.emit(diffStates(prev, curr, now))
			prev = curr
		}
	}
}

func (w *Watcher) emit(events []Event) {
	for _, e := range events {
		select {
		case w.events <- e:
		default:
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

// diffStates compares two polls and returns the detected events. A nil
// prev means curr is the first poll.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}
	event := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	if prev == nil {
		if curr.HasTrack() {
			return []Event{event(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if playerChanged(prev, curr) {
		events = append(events, event(EventPlayerChange))
	}

	if songChanged(prev, curr) {
		if prev.HasTrack() {
			switch {
			case wasCompleted(prev):
				events = append(events, event(EventTrackComplete))
			case !curr.HasTrack():
				events = append(events, event(EventStop))
			default:
				events = append(events, event(EventTrackSkip))
			}
		}
		if curr.HasTrack() {
			events = append(events, event(EventTrackChange))
		}
	}

	// Pausing only makes sense while something is loaded.
	if prev.HasTrack() && curr.HasTrack() {
		if prev.IsPlaying && !curr.IsPlaying {
			events = append(events, event(EventPause))
		} else if !prev.IsPlaying && curr.IsPlaying {
			events = append(events, event(EventResume))
		}
	}

	if prev.Volume != curr.Volume {
		events = append(events, event(EventVolumeChange))
	}

	return events
}

func songChanged(prev, curr *core.PlaybackState) bool {
	if !prev.HasTrack() && !curr.HasTrack() {
		return false
	}
	if !prev.HasTrack() || !curr.HasTrack() {
		return true
	}
	return prev.Track.ID != curr.Track.ID
}

// wasCompleted reports whether the last poll of a song was near its end.
func wasCompleted(state *core.PlaybackState) bool {
	return state.PlayedAtLeast(completedFraction)
}

// playerChanged reports an audio player appearing, disappearing or being replaced.
func playerChanged(prev, curr *core.PlaybackState) bool {
	if prev.Player == nil && curr.Player == nil {
		return false
	}
	if prev.Player == nil || curr.Player == nil {
		return true
	}
	return prev.Player.ID != curr.Player.ID
}
