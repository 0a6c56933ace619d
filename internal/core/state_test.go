package core

import (
	"math"
	"testing"
	"time"
)

func TestPlaybackStateProgress(t *testing.T) {
	fourMin := &Track{ID: 1, Duration: 4 * time.Minute}

	tests := []struct {
		name     string
		state    *PlaybackState
		percent  float64
		played95 bool
	}{
		{"nil state", nil, 0, false},
		{"no song", &PlaybackState{Progress: time.Minute}, 0, false},
		{"unknown length", &PlaybackState{Track: &Track{ID: 2}, Progress: time.Minute}, 0, false},
		{"quarter", &PlaybackState{Track: fourMin, Progress: time.Minute}, 25, false},
		{"near end", &PlaybackState{Track: fourMin, Progress: 3*time.Minute + 50*time.Second}, 100 * 230.0 / 240.0, true},
		{"overrun clamps", &PlaybackState{Track: fourMin, Progress: 5 * time.Minute}, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.ProgressPercent(); math.Abs(got-tt.percent) > 1e-9 {
				t.Errorf("ProgressPercent() = %v, want %v", got, tt.percent)
			}
			if got := tt.state.PlayedAtLeast(0.95); got != tt.played95 {
				t.Errorf("PlayedAtLeast(0.95) = %v, want %v", got, tt.played95)
			}
		})
	}
}
