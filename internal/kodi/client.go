// Package kodi wraps the Kodi JSON-RPC methods used by kodictl.
package kodi

import (
	"context"
	"fmt"

	"github.com/tessro/kodictl/internal/kodi/rpc"
)

// Client issues typed JSON-RPC calls over a transport.
type Client struct {
	transport rpc.Transport
}

// New creates a client on top of t.
func New(t rpc.Transport) *Client {
	return &Client{transport: t}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// call sends method with params and decodes result[key] into out. An empty
// key decodes the whole result.
func (c *Client) call(ctx context.Context, method string, params any, key string, out any) error {
	resp, err := c.transport.Call(ctx, rpc.NewRequest(method, params))
	if err != nil {
		return err
	}
	return rpc.Decode(method, resp, key, out)
}

// simple sends a command whose result is a bare "OK".
func (c *Client) simple(ctx context.Context, method string, params any) error {
	return c.call(ctx, method, params, "", nil)
}

type limitsParam struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type listParams struct {
	Properties []string    `json:"properties,omitempty"`
	Limits     limitsParam `json:"limits"`
}

// GetSongs returns the songs in [start, end) with the given properties and
// the server's paging block. The songs key is required whenever the window
// overlaps the library.
func (c *Client) GetSongs(ctx context.Context, properties []string, start, end int) ([]Song, Limits, error) {
	const method = "AudioLibrary.GetSongs"
	resp, err := c.transport.Call(ctx, rpc.NewRequest(method, listParams{
		Properties: properties,
		Limits:     limitsParam{Start: start, End: end},
	}))
	if err != nil {
		return nil, Limits{}, err
	}

	var limits Limits
	if err := rpc.Decode(method, resp, "limits", &limits); err != nil {
		return nil, Limits{}, err
	}
	if limits.Total <= start {
		return nil, limits, nil
	}
	var songs []Song
	if err := rpc.Decode(method, resp, "songs", &songs); err != nil {
		return nil, limits, err
	}
	return songs, limits, nil
}

// GetAlbums returns the albums in [start, end) and the server's paging block.
func (c *Client) GetAlbums(ctx context.Context, properties []string, start, end int) ([]AlbumItem, Limits, error) {
	const method = "AudioLibrary.GetAlbums"
	resp, err := c.transport.Call(ctx, rpc.NewRequest(method, listParams{
		Properties: properties,
		Limits:     limitsParam{Start: start, End: end},
	}))
	if err != nil {
		return nil, Limits{}, err
	}

	var limits Limits
	if err := rpc.Decode(method, resp, "limits", &limits); err != nil {
		return nil, Limits{}, err
	}
	if limits.Total <= start {
		return nil, limits, nil
	}
	var albums []AlbumItem
	if err := rpc.Decode(method, resp, "albums", &albums); err != nil {
		return nil, limits, err
	}
	return albums, limits, nil
}

// PlaylistAdd appends a song or album to the audio playlist. kind is
// ItemSong or ItemAlbum.
func (c *Client) PlaylistAdd(ctx context.Context, kind string, id int) error {
	if kind != ItemSong && kind != ItemAlbum {
		return fmt.Errorf("unsupported playlist item kind %q", kind)
	}
	return c.simple(ctx, "Playlist.Add", map[string]any{
		"playlistid": AudioPlaylistID,
		"item":       map[string]int{kind: id},
	})
}

// PlaylistClear empties the audio playlist.
func (c *Client) PlaylistClear(ctx context.Context) error {
	return c.simple(ctx, "Playlist.Clear", map[string]any{"playlistid": AudioPlaylistID})
}

// PlaylistGetItems returns the audio playlist. An empty playlist has no
// items key and yields nil.
func (c *Client) PlaylistGetItems(ctx context.Context) ([]ListItem, error) {
	var result struct {
		Items  []ListItem `json:"items"`
		Limits Limits     `json:"limits"`
	}
	err := c.call(ctx, "Playlist.GetItems", map[string]any{
		"playlistid": AudioPlaylistID,
		"properties": []string{"title", "artist", "album", "duration"},
	}, "", &result)
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// PlayerGetActive lists running players.
func (c *Client) PlayerGetActive(ctx context.Context) ([]ActivePlayer, error) {
	var players []ActivePlayer
	if err := c.call(ctx, "Player.GetActivePlayers", nil, "", &players); err != nil {
		return nil, err
	}
	return players, nil
}

// PlayerGetItem returns the item playing on playerID.
func (c *Client) PlayerGetItem(ctx context.Context, playerID int) (*ListItem, error) {
	var item ListItem
	err := c.call(ctx, "Player.GetItem", map[string]any{
		"playerid":   playerID,
		"properties": []string{"title", "artist", "album", "year", "rating", "duration"},
	}, "item", &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PlayerGetProperties returns timing and position for playerID.
func (c *Client) PlayerGetProperties(ctx context.Context, playerID int) (*PlayerProperties, error) {
	var props PlayerProperties
	err := c.call(ctx, "Player.GetProperties", map[string]any{
		"playerid":   playerID,
		"properties": PlayerPropertyNames,
	}, "", &props)
	if err != nil {
		return nil, err
	}
	return &props, nil
}

// PlayerGoToNext skips to the next playlist entry.
func (c *Client) PlayerGoToNext(ctx context.Context, playerID int) error {
	return c.simple(ctx, "Player.GoTo", map[string]any{"playerid": playerID, "to": "next"})
}

// PlayerOpenPlaylist starts playing the audio playlist.
func (c *Client) PlayerOpenPlaylist(ctx context.Context) error {
	return c.simple(ctx, "Player.Open", map[string]any{
		"item": map[string]int{"playlistid": AudioPlaylistID},
	})
}

// PlayerOpenParty starts music party mode.
func (c *Client) PlayerOpenParty(ctx context.Context) error {
	return c.simple(ctx, "Player.Open", map[string]any{
		"item": map[string]string{"partymode": "music"},
	})
}

// PlayerPlayPause toggles pause on playerID.
func (c *Client) PlayerPlayPause(ctx context.Context, playerID int) error {
	return c.call(ctx, "Player.PlayPause", map[string]any{"playerid": playerID}, "", nil)
}

// PlayerStop stops playerID.
func (c *Client) PlayerStop(ctx context.Context, playerID int) error {
	return c.simple(ctx, "Player.Stop", map[string]any{"playerid": playerID})
}

// SetVolume sets the application volume (0-100).
func (c *Client) SetVolume(ctx context.Context, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", percent)
	}
	return c.call(ctx, "Application.SetVolume", map[string]any{"volume": percent}, "", nil)
}

// GetVolume returns the application volume.
func (c *Client) GetVolume(ctx context.Context) (int, error) {
	var volume int
	err := c.call(ctx, "Application.GetProperties", map[string]any{
		"properties": []string{"volume"},
	}, "volume", &volume)
	return volume, err
}

// FriendlyName returns the media center's configured name.
func (c *Client) FriendlyName(ctx context.Context) (string, error) {
	const label = "System.FriendlyName"
	var name string
	err := c.call(ctx, "XBMC.GetInfoLabels", map[string]any{"labels": []string{label}}, label, &name)
	return name, err
}

// ShowNotification pops a toast on the Kodi screen.
func (c *Client) ShowNotification(ctx context.Context, title, message string) error {
	return c.simple(ctx, "GUI.ShowNotification", map[string]any{"title": title, "message": message})
}
