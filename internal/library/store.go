package library

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

const snapshotVersion = 1

// Store persists the library between sessions as two blobs, one for songs
// and one for albums.
type Store interface {
	// Exists reports whether both blobs are present.
	Exists(ctx context.Context) bool
	Load(ctx context.Context) (*core.Library, error)
	Save(ctx context.Context, lib *core.Library) error
	Delete(ctx context.Context) error
	Info(ctx context.Context) (*SnapshotInfo, error)
	Close() error
}

// SnapshotInfo describes the stored snapshot.
type SnapshotInfo struct {
	Backend  string    `json:"backend"`
	Location string    `json:"location"`
	Exists   bool      `json:"exists"`
	SavedAt  time.Time `json:"saved_at"`
	Tracks   int       `json:"tracks"`
	Albums   int       `json:"albums"`
	Bytes    int64     `json:"bytes"`
}

// NewStore opens the backend selected by cfg.Backend.
func NewStore(cfg config.LibraryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Dir), nil
	case config.BackendBadger:
		return OpenBadgerStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("%w: unknown library backend %q", kerrors.ErrInvalidConfig, cfg.Backend)
	}
}

// snapshot is the on-disk form of one blob.
type snapshot[T any] struct {
	Version  int       `json:"version"`
	Checksum uint64    `json:"checksum"`
	SavedAt  time.Time `json:"saved_at"`
	Items    []T       `json:"items"`
}

func checksum[T any](items []T) (uint64, error) {
	return hashstructure.Hash(items, hashstructure.FormatV2, nil)
}

func newSnapshot[T any](items []T, now time.Time) (*snapshot[T], error) {
	sum, err := checksum(items)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum snapshot: %w", err)
	}
	return &snapshot[T]{
		Version:  snapshotVersion,
		Checksum: sum,
		SavedAt:  now.UTC(),
		Items:    items,
	}, nil
}

// verify checks the version and checksum of a decoded snapshot.
func (s *snapshot[T]) verify(name string) error {
	if s.Version != snapshotVersion {
		return fmt.Errorf("%s: %w: version %d", name, kerrors.ErrSnapshotCorrupt, s.Version)
	}
	sum, err := checksum(s.Items)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", name, kerrors.ErrSnapshotCorrupt, err)
	}
	if sum != s.Checksum {
		return fmt.Errorf("%s: %w: checksum mismatch", name, kerrors.ErrSnapshotCorrupt)
	}
	return nil
}

// flatten copies the library into snapshot item slices.
func flatten(lib *core.Library) ([]core.Track, []core.Album) {
	tracks := make([]core.Track, 0, lib.TrackCount())
	for _, t := range lib.Tracks() {
		tracks = append(tracks, *t)
	}
	albums := make([]core.Album, 0, lib.AlbumCount())
	for _, a := range lib.Albums() {
		albums = append(albums, *a)
	}
	return tracks, albums
}

func rebuild(tracks []core.Track, albums []core.Album) *core.Library {
	lib := core.NewLibrary()
	for i := range tracks {
		lib.PutTrack(&tracks[i])
	}
	for i := range albums {
		lib.PutAlbum(&albums[i])
	}
	return lib
}
