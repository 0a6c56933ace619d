package library

import (
	"context"

	"github.com/tessro/kodictl/internal/core"
)

// Stats are the mutable per-song fields re-fetched by a pull sync.
type Stats struct {
	ID        int
	Rating    int
	Playcount int
}

// Reader pages through the remote audio library.
type Reader interface {
	// SongCount returns the total number of songs on the server.
	SongCount(ctx context.Context) (int, error)
	// Songs returns the songs in window w.
	Songs(ctx context.Context, w core.Window) ([]*core.Track, error)
	// SongStats returns rating and playcount for the songs in window w.
	SongStats(ctx context.Context, w core.Window) ([]Stats, error)
	// AlbumCount returns the total number of albums on the server.
	AlbumCount(ctx context.Context) (int, error)
	// Albums returns the albums in window w.
	Albums(ctx context.Context, w core.Window) ([]*core.Album, error)
}
