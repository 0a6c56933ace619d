package core

import "context"

// Player controls playback on a media center.
type Player interface {
	// Transport control
	PlayPause(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error

	// Volume control
	Volume(ctx context.Context, percent int) error

	// State queries
	GetState(ctx context.Context) (*PlaybackState, error)
	GetQueue(ctx context.Context) (*Queue, error)

	// Queue manipulation
	ClearQueue(ctx context.Context) error
	EnqueueTrack(ctx context.Context, trackID int) error
	EnqueueAlbum(ctx context.Context, albumID int) error
	PlayQueue(ctx context.Context) error
	PartyMode(ctx context.Context) error
}
