package kodi

import (
	"context"
	"errors"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

// Player implements core.Player for a Kodi audio player.
type Player struct {
	client *Client
}

// NewPlayer creates a player backed by c.
func NewPlayer(c *Client) *Player {
	return &Player{client: c}
}

// audioPlayer returns the id of the running audio player.
func (p *Player) audioPlayer(ctx context.Context) (int, error) {
	players, err := p.client.PlayerGetActive(ctx)
	if err != nil {
		return 0, err
	}
	for _, ap := range players {
		if ap.Type == "audio" {
			return ap.PlayerID, nil
		}
	}
	return 0, kerrors.ErrNotPlaying
}

// PlayPause toggles pause on the audio player.
func (p *Player) PlayPause(ctx context.Context) error {
	id, err := p.audioPlayer(ctx)
	if err != nil {
		return err
	}
	return p.client.PlayerPlayPause(ctx, id)
}

// Stop stops the audio player.
func (p *Player) Stop(ctx context.Context) error {
	id, err := p.audioPlayer(ctx)
	if err != nil {
		return err
	}
	return p.client.PlayerStop(ctx, id)
}

// Next skips to the next playlist entry.
func (p *Player) Next(ctx context.Context) error {
	id, err := p.audioPlayer(ctx)
	if err != nil {
		return err
	}
	return p.client.PlayerGoToNext(ctx, id)
}

// Volume sets the playback volume (0-100).
func (p *Player) Volume(ctx context.Context, percent int) error {
	return p.client.SetVolume(ctx, percent)
}

// GetState returns the current playback state. With no audio player running
// the state has no track.
func (p *Player) GetState(ctx context.Context) (*core.PlaybackState, error) {
	volume, err := p.client.GetVolume(ctx)
	if err != nil {
		return nil, err
	}
	state := &core.PlaybackState{Volume: volume}

	id, err := p.audioPlayer(ctx)
	if errors.Is(err, kerrors.ErrNotPlaying) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}
	state.Player = &core.ActivePlayer{ID: id, Type: "audio"}

	item, err := p.client.PlayerGetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	props, err := p.client.PlayerGetProperties(ctx, id)
	if err != nil {
		return nil, err
	}

	track := convertListItem(item)
	if track.Duration == 0 {
		track.Duration = props.TotalTime.Duration()
	}
	state.Track = &track
	state.Progress = props.Time.Duration()
	state.IsPlaying = props.Speed != 0
	return state, nil
}

// GetQueue returns the audio playlist with the playing position.
func (p *Player) GetQueue(ctx context.Context) (*core.Queue, error) {
	items, err := p.client.PlaylistGetItems(ctx)
	if err != nil {
		return nil, err
	}

	queue := &core.Queue{CurrentIndex: -1}
	for i := range items {
		queue.Tracks = append(queue.Tracks, convertListItem(&items[i]))
	}

	id, err := p.audioPlayer(ctx)
	if errors.Is(err, kerrors.ErrNotPlaying) {
		return queue, nil
	}
	if err != nil {
		return nil, err
	}
	props, err := p.client.PlayerGetProperties(ctx, id)
	if err != nil {
		return nil, err
	}
	queue.CurrentIndex = props.Position
	return queue, nil
}

// ClearQueue empties the audio playlist.
func (p *Player) ClearQueue(ctx context.Context) error {
	return p.client.PlaylistClear(ctx)
}

// EnqueueTrack appends a song to the audio playlist.
func (p *Player) EnqueueTrack(ctx context.Context, trackID int) error {
	return p.client.PlaylistAdd(ctx, ItemSong, trackID)
}

// EnqueueAlbum appends every song of an album to the audio playlist.
func (p *Player) EnqueueAlbum(ctx context.Context, albumID int) error {
	return p.client.PlaylistAdd(ctx, ItemAlbum, albumID)
}

// PlayQueue starts the audio playlist from the top.
func (p *Player) PlayQueue(ctx context.Context) error {
	return p.client.PlayerOpenPlaylist(ctx)
}

// PartyMode starts music party mode.
func (p *Player) PartyMode(ctx context.Context) error {
	return p.client.PlayerOpenParty(ctx)
}

var _ core.Player = (*Player)(nil)
