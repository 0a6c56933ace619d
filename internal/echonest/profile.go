package echonest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

// ProfileTypeGeneral is the profile type holding songs and artists.
const ProfileTypeGeneral = "general"

// ReadBuckets are requested when reading a profile item.
var ReadBuckets = []string{
	"artist_discovery", "artist_familiarity", "artist_hotttnesss",
	"song_currency", "song_hotttnesss", "song_type",
}

// Profile describes a taste profile.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Total          int    `json:"total"`
	PendingTickets []any  `json:"pending_tickets,omitempty"`
	Resolved       int    `json:"resolved"`
}

// UpdateRecord is the item block of an update action.
type UpdateRecord struct {
	ItemID    string `json:"item_id"`
	SongID    string `json:"song_id,omitempty"`
	Rating    int    `json:"rating"`
	PlayCount int    `json:"play_count"`
}

// UpdateItem is one entry of a tasteprofile/update data array.
type UpdateItem struct {
	Action string       `json:"action"`
	Item   UpdateRecord `json:"item"`
}

// NewUpdateItem builds the update action for t. The local rating is
// multiplied by scale to fit the profile's 0-10 range.
func NewUpdateItem(t *core.Track, scale int) UpdateItem {
	rec := UpdateRecord{
		ItemID:    strconv.Itoa(t.ID),
		Rating:    t.Rating * scale,
		PlayCount: t.Playcount,
	}
	if t.MusicBrainzID != "" {
		rec.SongID = "musicbrainz:song:" + t.MusicBrainzID
	}
	return UpdateItem{Action: "update", Item: rec}
}

// CatalogItem is a profile item as returned by tasteprofile/read.
type CatalogItem struct {
	Request           UpdateRecord `json:"request"`
	ItemID            string       `json:"item_id"`
	SongID            string       `json:"song_id"`
	SongName          string       `json:"song_name"`
	ArtistName        string       `json:"artist_name"`
	PlayCount         int          `json:"play_count"`
	Rating            int          `json:"rating"`
	Favorite          bool         `json:"favorite"`
	SkipCount         int          `json:"skip_count"`
	LastModified      string       `json:"last_modified"`
	ArtistDiscovery   float64      `json:"artist_discovery"`
	ArtistFamiliarity float64      `json:"artist_familiarity"`
	ArtistHotttnesss  float64      `json:"artist_hotttnesss"`
	SongCurrency      float64      `json:"song_currency"`
	SongHotttnesss    float64      `json:"song_hotttnesss"`
	SongType          []string     `json:"song_type"`
}

// ProfileByName looks a profile up by name. A missing profile yields an
// error wrapping kerrors.ErrProfileNotFound.
func (c *Client) ProfileByName(ctx context.Context, name string) (*Profile, error) {
	var resp struct {
		Catalog Profile `json:"catalog"`
	}
	err := c.get(ctx, "tasteprofile/profile", url.Values{"name": {name}}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, fmt.Errorf("profile %q: %w", name, kerrors.ErrProfileNotFound)
		}
		return nil, err
	}
	return &resp.Catalog, nil
}

// CreateProfile creates a general profile and returns its id.
func (c *Client) CreateProfile(ctx context.Context, name string) (string, error) {
	var resp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	err := c.post(ctx, "tasteprofile/create", url.Values{
		"name": {name},
		"type": {ProfileTypeGeneral},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("echonest tasteprofile/create: no id in response")
	}
	return resp.ID, nil
}

// ProfileInfo returns the profile with the given id. A profile deleted on
// the service yields an error wrapping ErrProfileNotFound.
func (c *Client) ProfileInfo(ctx context.Context, id string) (*Profile, error) {
	var resp struct {
		Catalog Profile `json:"catalog"`
	}
	if err := c.get(ctx, "tasteprofile/profile", url.Values{"id": {id}}, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, fmt.Errorf("profile %s: %w: %w", id, kerrors.ErrProfileNotFound, err)
		}
		return nil, err
	}
	return &resp.Catalog, nil
}

// Update posts a batch of update actions and returns the server ticket.
func (c *Client) Update(ctx context.Context, id string, items []UpdateItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode update: %w", err)
	}
	var resp struct {
		Ticket string `json:"ticket"`
	}
	err = c.post(ctx, "tasteprofile/update", url.Values{
		"id":   {id},
		"data": {string(data)},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Ticket, nil
}

// Favorite marks a song as a favorite in the profile.
func (c *Client) Favorite(ctx context.Context, id string, songID int) error {
	return c.get(ctx, "tasteprofile/favorite", url.Values{
		"id":   {id},
		"item": {strconv.Itoa(songID)},
	}, nil)
}

// Skip records a skip of a song in the profile.
func (c *Client) Skip(ctx context.Context, id string, songID int) error {
	return c.get(ctx, "tasteprofile/skip", url.Values{
		"id":   {id},
		"item": {strconv.Itoa(songID)},
	}, nil)
}

// Read returns the profile's record for one item.
func (c *Client) Read(ctx context.Context, id string, itemID int) (*CatalogItem, error) {
	var resp struct {
		Catalog struct {
			Items []CatalogItem `json:"items"`
		} `json:"catalog"`
	}
	err := c.get(ctx, "tasteprofile/read", url.Values{
		"id":      {id},
		"item_id": {strconv.Itoa(itemID)},
		"bucket":  ReadBuckets,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Catalog.Items) == 0 {
		return nil, fmt.Errorf("item %d: %w", itemID, kerrors.ErrTrackNotFound)
	}
	return &resp.Catalog.Items[0], nil
}

// Delete removes the profile.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.post(ctx, "tasteprofile/delete", url.Values{"id": {id}}, nil)
}
