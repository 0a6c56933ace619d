package core

import (
	"strings"
	"time"
)

// MaxRating is the top of Kodi's local rating scale.
const MaxRating = 5

// SyncShadow holds the playcount and rating last pushed to the taste profile.
type SyncShadow struct {
	Playcount int `json:"playcount"`
	Rating    int `json:"rating"`
}

// Track is a song from the Kodi audio library.
type Track struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Artist        string        `json:"artist"`
	Album         string        `json:"album,omitempty"`
	Year          int           `json:"year"`
	MusicBrainzID string        `json:"musicbrainz_id"`
	Playcount     int           `json:"playcount"`
	Rating        int           `json:"rating"`
	Genres        []string      `json:"genres"`
	Duration      time.Duration `json:"duration,omitempty"`
	Shadow        SyncShadow    `json:"shadow"`
}

// Dirty reports whether the playcount or rating differ from the last push.
func (t *Track) Dirty() bool {
	return t.Rating != t.Shadow.Rating || t.Playcount != t.Shadow.Playcount
}

// MarkSynced advances the shadow to the current playcount and rating.
func (t *Track) MarkSynced() {
	t.Shadow = SyncShadow{Playcount: t.Playcount, Rating: t.Rating}
}

// Matches reports whether the lowercased query occurs in the title or artist.
func (t *Track) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Artist), q)
}

// Album is an album from the Kodi audio library.
type Album struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year"`
}

// Matches reports whether the lowercased query occurs in the title or artist.
func (a *Album) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Artist), q)
}
