package core

import (
	"math/rand/v2"
	"sort"
)

// Library is the in-memory copy of the Kodi audio library. Tracks and albums
// are keyed by id; iteration follows insertion order.
type Library struct {
	tracks     map[int]*Track
	trackOrder []int
	albums     map[int]*Album
	albumOrder []int
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		tracks: make(map[int]*Track),
		albums: make(map[int]*Album),
	}
}

// PutTrack inserts or replaces a track. Replacing keeps the original position.
func (l *Library) PutTrack(t *Track) {
	if _, ok := l.tracks[t.ID]; !ok {
		l.trackOrder = append(l.trackOrder, t.ID)
	}
	l.tracks[t.ID] = t
}

// PutAlbum inserts or replaces an album.
func (l *Library) PutAlbum(a *Album) {
	if _, ok := l.albums[a.ID]; !ok {
		l.albumOrder = append(l.albumOrder, a.ID)
	}
	l.albums[a.ID] = a
}

// Track returns the track with the given id.
func (l *Library) Track(id int) (*Track, bool) {
	t, ok := l.tracks[id]
	return t, ok
}

// Album returns the album with the given id.
func (l *Library) Album(id int) (*Album, bool) {
	a, ok := l.albums[id]
	return a, ok
}

// Tracks returns all tracks in insertion order.
func (l *Library) Tracks() []*Track {
	out := make([]*Track, 0, len(l.trackOrder))
	for _, id := range l.trackOrder {
		out = append(out, l.tracks[id])
	}
	return out
}

// Albums returns all albums in insertion order.
func (l *Library) Albums() []*Album {
	out := make([]*Album, 0, len(l.albumOrder))
	for _, id := range l.albumOrder {
		out = append(out, l.albums[id])
	}
	return out
}

// TrackCount returns the number of tracks.
func (l *Library) TrackCount() int {
	return len(l.trackOrder)
}

// AlbumCount returns the number of albums.
func (l *Library) AlbumCount() int {
	return len(l.albumOrder)
}

// DirtyTracks returns the tracks whose playcount or rating differ from their shadow.
func (l *Library) DirtyTracks() []*Track {
	var out []*Track
	for _, id := range l.trackOrder {
		if t := l.tracks[id]; t.Dirty() {
			out = append(out, t)
		}
	}
	return out
}

// SearchTracks returns tracks matching query, sorted by id.
func (l *Library) SearchTracks(query string) []*Track {
	var out []*Track
	for _, id := range l.trackOrder {
		if t := l.tracks[id]; t.Matches(query) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SearchAlbums returns albums matching query, sorted by id.
func (l *Library) SearchAlbums(query string) []*Album {
	var out []*Album
	for _, id := range l.albumOrder {
		if a := l.albums[id]; a.Matches(query) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TrackPage returns the 1-based page of tracks in insertion order.
func (l *Library) TrackPage(page, perPage int) []*Track {
	w, ok := pageWindow(page, perPage, len(l.trackOrder))
	if !ok {
		return nil
	}
	out := make([]*Track, 0, w.Len())
	for _, id := range l.trackOrder[w.Start:w.End] {
		out = append(out, l.tracks[id])
	}
	return out
}

// AlbumPage returns the 1-based page of albums in insertion order.
func (l *Library) AlbumPage(page, perPage int) []*Album {
	w, ok := pageWindow(page, perPage, len(l.albumOrder))
	if !ok {
		return nil
	}
	out := make([]*Album, 0, w.Len())
	for _, id := range l.albumOrder[w.Start:w.End] {
		out = append(out, l.albums[id])
	}
	return out
}

// RecentAlbums returns the last n albums added to the library.
func (l *Library) RecentAlbums(n int) []*Album {
	start := len(l.albumOrder) - n
	if start < 0 {
		start = 0
	}
	out := make([]*Album, 0, len(l.albumOrder)-start)
	for _, id := range l.albumOrder[start:] {
		out = append(out, l.albums[id])
	}
	return out
}

// RandomAlbums returns up to n distinct albums chosen at random.
func (l *Library) RandomAlbums(n int) []*Album {
	idx := rand.Perm(len(l.albumOrder))
	if n < len(idx) {
		idx = idx[:n]
	}
	out := make([]*Album, 0, len(idx))
	for _, i := range idx {
		out = append(out, l.albums[l.albumOrder[i]])
	}
	return out
}

// RandomAlbum returns one album chosen at random.
func (l *Library) RandomAlbum() (*Album, bool) {
	if len(l.albumOrder) == 0 {
		return nil, false
	}
	return l.albums[l.albumOrder[rand.IntN(len(l.albumOrder))]], true
}

// PageCount returns the number of pages of perPage items needed for n items.
func PageCount(n, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// pageWindow returns the window for a 1-based page number.
func pageWindow(page, perPage, n int) (Window, bool) {
	if page < 1 || perPage <= 0 {
		return Window{}, false
	}
	start := (page - 1) * perPage
	if start >= n {
		return Window{}, false
	}
	end := start + perPage
	if end > n {
		end = n
	}
	return Window{Start: start, End: end}, true
}
