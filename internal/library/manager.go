// Package library owns the local copy of the Kodi audio library: remote
// ingestion in windows, the snapshot store, and reload on startup.
package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
)

// Default window sizes for remote paging.
const (
	DefaultSongsPageSize  = 20
	DefaultAlbumsPageSize = 10
)

// Ingestion stages reported through ProgressFunc.
const (
	StageSongs  = "songs"
	StageAlbums = "albums"
)

// ProgressFunc is told how many items of a stage have been fetched.
type ProgressFunc func(stage string, done, total int)

// Options tunes a Manager.
type Options struct {
	SongsPageSize  int
	AlbumsPageSize int
	Retry          RetryPolicy
	Progress       ProgressFunc
}

// Manager loads the library from the snapshot or, failing that, from the
// server.
type Manager struct {
	reader Reader
	store  Store
	opts   Options
}

// NewManager creates a manager reading from r and persisting to s.
func NewManager(r Reader, s Store, opts Options) *Manager {
	if opts.SongsPageSize <= 0 {
		opts.SongsPageSize = DefaultSongsPageSize
	}
	if opts.AlbumsPageSize <= 0 {
		opts.AlbumsPageSize = DefaultAlbumsPageSize
	}
	return &Manager{reader: r, store: s, opts: opts}
}

// SetProgress replaces the progress callback.
func (m *Manager) SetProgress(fn ProgressFunc) {
	m.opts.Progress = fn
}

// Reader returns the remote reader.
func (m *Manager) Reader() Reader {
	return m.reader
}

// Store returns the snapshot store.
func (m *Manager) Store() Store {
	return m.store
}

// Retry returns the retry policy applied to remote windows.
func (m *Manager) Retry() RetryPolicy {
	return m.opts.Retry
}

// SongsPageSize returns the song window size.
func (m *Manager) SongsPageSize() int {
	return m.opts.SongsPageSize
}

// Load returns the snapshot when both blobs exist, without contacting the
// server. Otherwise it ingests the whole library and saves it. A corrupt
// snapshot is logged and replaced.
func (m *Manager) Load(ctx context.Context) (*core.Library, error) {
	log := logging.Ctx(ctx)

	if m.store.Exists(ctx) {
		lib, err := m.store.Load(ctx)
		switch {
		case err == nil:
			log.Info().Int("songs", lib.TrackCount()).Int("albums", lib.AlbumCount()).Msg("library loaded from snapshot")
			return lib, nil
		case errors.Is(err, kerrors.ErrSnapshotCorrupt):
			log.Warn().Err(err).Msg("library snapshot unreadable, rebuilding from server")
		case errors.Is(err, kerrors.ErrSnapshotNotFound):
			log.Info().Err(err).Msg("library snapshot incomplete, rebuilding from server")
		default:
			return nil, err
		}
	}

	return m.Ingest(ctx)
}

// Refresh discards the snapshot and ingests again.
func (m *Manager) Refresh(ctx context.Context) (*core.Library, error) {
	if err := m.store.Delete(ctx); err != nil {
		return nil, err
	}
	return m.Ingest(ctx)
}

// Ingest fetches every song and album from the server and saves the
// snapshot once both are complete. Nothing is written if any window fails.
func (m *Manager) Ingest(ctx context.Context) (*core.Library, error) {
	lib := core.NewLibrary()

	if err := m.ingestSongs(ctx, lib); err != nil {
		return nil, err
	}
	if err := m.ingestAlbums(ctx, lib); err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, lib); err != nil {
		return nil, fmt.Errorf("failed to save library snapshot: %w", err)
	}
	logging.Ctx(ctx).Info().Int("songs", lib.TrackCount()).Int("albums", lib.AlbumCount()).Msg("library ingested")
	return lib, nil
}

// Save persists lib.
func (m *Manager) Save(ctx context.Context, lib *core.Library) error {
	return m.store.Save(ctx, lib)
}

func (m *Manager) ingestSongs(ctx context.Context, lib *core.Library) error {
	var total int
	err := m.opts.Retry.Do(ctx, "count songs", func() error {
		n, err := m.reader.SongCount(ctx)
		total = n
		return err
	})
	if err != nil {
		return err
	}

	done := 0
	m.progress(StageSongs, done, total)
	for _, w := range core.Windows(total, m.opts.SongsPageSize) {
		var tracks []*core.Track
		err := m.opts.Retry.Do(ctx, "songs "+w.String(), func() error {
			t, err := m.reader.Songs(ctx, w)
			tracks = t
			return err
		})
		if err != nil {
			return err
		}
		for _, t := range tracks {
			t.Shadow = core.SyncShadow{}
			lib.PutTrack(t)
		}
		done = w.End
		m.progress(StageSongs, done, total)
	}
	return nil
}

func (m *Manager) ingestAlbums(ctx context.Context, lib *core.Library) error {
	var total int
	err := m.opts.Retry.Do(ctx, "count albums", func() error {
		n, err := m.reader.AlbumCount(ctx)
		total = n
		return err
	})
	if err != nil {
		return err
	}

	m.progress(StageAlbums, 0, total)
	for _, w := range core.Windows(total, m.opts.AlbumsPageSize) {
		var albums []*core.Album
		err := m.opts.Retry.Do(ctx, "albums "+w.String(), func() error {
			a, err := m.reader.Albums(ctx, w)
			albums = a
			return err
		})
		if err != nil {
			return err
		}
		for _, a := range albums {
			lib.PutAlbum(a)
		}
		m.progress(StageAlbums, w.End, total)
	}
	return nil
}

func (m *Manager) progress(stage string, done, total int) {
	if m.opts.Progress != nil {
		m.opts.Progress(stage, done, total)
	}
}
