package echonest

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/tessro/kodictl/internal/logging"
)

type foreignID struct {
	Catalog   string `json:"catalog"`
	ForeignID string `json:"foreign_id"`
}

type playlistSong struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	ArtistName string      `json:"artist_name"`
	ForeignIDs []foreignID `json:"foreign_ids"`
}

// ItemKey is the foreign id under which the profile stores a Kodi song.
func ItemKey(profileID string, songID int) string {
	return profileID + ":song:" + strconv.Itoa(songID)
}

// StaticPlaylist asks for a playlist drawn from the profile and returns Kodi
// song ids. A positive seedSongID seeds the playlist with that song.
func (c *Client) StaticPlaylist(ctx context.Context, profileID string, seedSongID int) ([]int, error) {
	params := url.Values{
		"type":         {"catalog"},
		"seed_catalog": {profileID},
		"bucket":       {"id:" + profileID},
	}
	if seedSongID > 0 {
		params.Set("song_id", ItemKey(profileID, seedSongID))
	}

	var resp struct {
		Songs []playlistSong `json:"songs"`
	}
	if err := c.get(ctx, "playlist/static", params, &resp); err != nil {
		return nil, err
	}

	prefix := profileID + ":song:"
	ids := make([]int, 0, len(resp.Songs))
	for _, s := range resp.Songs {
		id, ok := kodiID(s.ForeignIDs, prefix)
		if !ok {
			logging.Ctx(ctx).Debug().Str("song", s.ID).Msg("playlist song has no local id")
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func kodiID(fids []foreignID, prefix string) (int, bool) {
	for _, f := range fids {
		rest, ok := strings.CutPrefix(f.ForeignID, prefix)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		return id, true
	}
	return 0, false
}
