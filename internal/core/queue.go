package core

// Queue is the media center's audio playlist.
type Queue struct {
	Tracks       []Track `json:"tracks"`
	CurrentIndex int     `json:"current_index"`
}

// Current returns the playing entry, or nil when nothing in the playlist is active.
func (q *Queue) Current() *Track {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return nil
	}
	return &q.Tracks[q.CurrentIndex]
}

// Upcoming returns the entries after the current position. With no current
// entry the whole playlist is upcoming.
func (q *Queue) Upcoming() []Track {
	if q == nil || len(q.Tracks) == 0 {
		return nil
	}
	if q.CurrentIndex < 0 {
		return q.Tracks
	}
	if q.CurrentIndex >= len(q.Tracks)-1 {
		return nil
	}
	return q.Tracks[q.CurrentIndex+1:]
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the playlist has no entries.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
