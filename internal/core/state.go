package core

import "time"

// ActivePlayer identifies one of the media center's running players.
type ActivePlayer struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Track     *Track        `json:"track"`
	Player    *ActivePlayer `json:"player"`
	IsPlaying bool          `json:"is_playing"`
	Progress  time.Duration `json:"progress"`
	Volume    int           `json:"volume"`
}

// HasTrack reports whether a song is loaded in the player.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent is the played share of the loaded song in [0, 100]. Songs
// of unknown length report 0.
func (s *PlaybackState) ProgressPercent() float64 {
	if !s.HasTrack() || s.Track.Duration <= 0 {
		return 0
	}
	return min(100, 100*s.Progress.Seconds()/s.Track.Duration.Seconds())
}

// PlayedAtLeast reports whether at least fraction of the loaded song has
// played. Songs of unknown length never qualify.
func (s *PlaybackState) PlayedAtLeast(fraction float64) bool {
	if !s.HasTrack() || s.Track.Duration <= 0 {
		return false
	}
	return s.Progress.Seconds() >= s.Track.Duration.Seconds()*fraction
}
