package kodi

import (
	"math"
	"time"

	"github.com/tessro/kodictl/internal/core"
)

// Audio playlist and item kinds understood by Playlist.Add.
const (
	AudioPlaylistID = 0

	ItemSong  = "songid"
	ItemAlbum = "albumid"
)

// SongProperties are requested from AudioLibrary.GetSongs during ingestion.
var SongProperties = []string{
	"title", "artist", "album", "year", "rating", "playcount",
	"musicbrainztrackid", "genre", "duration",
}

// StatsProperties are the fields a pull sync re-fetches.
var StatsProperties = []string{"rating", "playcount"}

// AlbumProperties are requested from AudioLibrary.GetAlbums.
var AlbumProperties = []string{"title", "artist", "year"}

// Limits is the paging block of a library response.
type Limits struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// Song is an AudioLibrary song item.
type Song struct {
	SongID             int      `json:"songid"`
	Label              string   `json:"label"`
	Title              string   `json:"title"`
	Artist             []string `json:"artist"`
	Album              string   `json:"album"`
	Year               int      `json:"year"`
	Rating             float64  `json:"rating"`
	Playcount          int      `json:"playcount"`
	MusicBrainzTrackID string   `json:"musicbrainztrackid"`
	Genre              []string `json:"genre"`
	Duration           int      `json:"duration"`
}

// AlbumItem is an AudioLibrary album item.
type AlbumItem struct {
	AlbumID int      `json:"albumid"`
	Label   string   `json:"label"`
	Title   string   `json:"title"`
	Artist  []string `json:"artist"`
	Year    int      `json:"year"`
}

// ListItem is an entry returned by Playlist.GetItems and Player.GetItem.
type ListItem struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Title    string   `json:"title"`
	Artist   []string `json:"artist"`
	Album    string   `json:"album"`
	Year     int      `json:"year"`
	Rating   float64  `json:"rating"`
	Duration int      `json:"duration"`
}

// ActivePlayer is one entry of Player.GetActivePlayers.
type ActivePlayer struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// Time is Kodi's split time representation.
type Time struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds"`
}

// Duration converts t to a time.Duration.
func (t Time) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Milliseconds)*time.Millisecond
}

// PlayerProperties is the result of Player.GetProperties.
type PlayerProperties struct {
	Time       Time    `json:"time"`
	TotalTime  Time    `json:"totaltime"`
	Percentage float64 `json:"percentage"`
	Position   int     `json:"position"`
	Speed      int     `json:"speed"`
}

// PlayerPropertyNames are requested from Player.GetProperties.
var PlayerPropertyNames = []string{"time", "totaltime", "percentage", "position", "speed"}

func firstArtist(artists []string) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0]
}

// genres drops empty entries. A song without genres gets a nil slice.
func genres(in []string) []string {
	var out []string
	for _, g := range in {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// clampRating rounds a server rating into the local 0..5 scale.
func clampRating(r float64) int {
	n := int(math.Round(r))
	if n < 0 {
		return 0
	}
	if n > core.MaxRating {
		return core.MaxRating
	}
	return n
}

func convertSong(s *Song) *core.Track {
	title := s.Title
	if title == "" {
		title = s.Label
	}
	return &core.Track{
		ID:            s.SongID,
		Title:         title,
		Artist:        firstArtist(s.Artist),
		Album:         s.Album,
		Year:          s.Year,
		MusicBrainzID: s.MusicBrainzTrackID,
		Playcount:     s.Playcount,
		Rating:        clampRating(s.Rating),
		Genres:        genres(s.Genre),
		Duration:      time.Duration(s.Duration) * time.Second,
	}
}

func convertAlbum(a *AlbumItem) *core.Album {
	title := a.Title
	if title == "" {
		title = a.Label
	}
	return &core.Album{
		ID:     a.AlbumID,
		Title:  title,
		Artist: firstArtist(a.Artist),
		Year:   a.Year,
	}
}

func convertListItem(it *ListItem) core.Track {
	title := it.Title
	if title == "" {
		title = it.Label
	}
	return core.Track{
		ID:       it.ID,
		Title:    title,
		Artist:   firstArtist(it.Artist),
		Album:    it.Album,
		Year:     it.Year,
		Rating:   clampRating(it.Rating),
		Duration: time.Duration(it.Duration) * time.Second,
	}
}
