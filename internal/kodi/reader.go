package kodi

import (
	"context"

	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/library"
)

// LibraryReader pages through the Kodi audio library.
type LibraryReader struct {
	client *Client
}

// NewLibraryReader creates a reader backed by c.
func NewLibraryReader(c *Client) *LibraryReader {
	return &LibraryReader{client: c}
}

// SongCount implements library.Reader using a one-item probe.
func (r *LibraryReader) SongCount(ctx context.Context) (int, error) {
	_, limits, err := r.client.GetSongs(ctx, nil, 0, 1)
	if err != nil {
		return 0, err
	}
	return limits.Total, nil
}

// Songs implements library.Reader.
func (r *LibraryReader) Songs(ctx context.Context, w core.Window) ([]*core.Track, error) {
	songs, _, err := r.client.GetSongs(ctx, SongProperties, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	tracks := make([]*core.Track, 0, len(songs))
	for i := range songs {
		tracks = append(tracks, convertSong(&songs[i]))
	}
	return tracks, nil
}

// SongStats implements library.Reader.
func (r *LibraryReader) SongStats(ctx context.Context, w core.Window) ([]library.Stats, error) {
	songs, _, err := r.client.GetSongs(ctx, StatsProperties, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	stats := make([]library.Stats, 0, len(songs))
	for _, s := range songs {
		stats = append(stats, library.Stats{
			ID:        s.SongID,
			Rating:    clampRating(s.Rating),
			Playcount: s.Playcount,
		})
	}
	return stats, nil
}

// AlbumCount implements library.Reader.
func (r *LibraryReader) AlbumCount(ctx context.Context) (int, error) {
	_, limits, err := r.client.GetAlbums(ctx, nil, 0, 1)
	if err != nil {
		return 0, err
	}
	return limits.Total, nil
}

// Albums implements library.Reader.
func (r *LibraryReader) Albums(ctx context.Context, w core.Window) ([]*core.Album, error) {
	items, _, err := r.client.GetAlbums(ctx, AlbumProperties, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	albums := make([]*core.Album, 0, len(items))
	for i := range items {
		albums = append(albums, convertAlbum(&items[i]))
	}
	return albums, nil
}

var _ library.Reader = (*LibraryReader)(nil)
