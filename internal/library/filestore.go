package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

const (
	songsFileName  = "songs.json"
	albumsFileName = "albums.json"
)

// FileStore keeps the snapshot as two JSON files in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) songsPath() string  { return filepath.Join(s.dir, songsFileName) }
func (s *FileStore) albumsPath() string { return filepath.Join(s.dir, albumsFileName) }

// Exists implements Store.
func (s *FileStore) Exists(ctx context.Context) bool {
	_, errSongs := os.Stat(s.songsPath())
	_, errAlbums := os.Stat(s.albumsPath())
	return errSongs == nil && errAlbums == nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*core.Library, error) {
	songs, err := readSnapshot[core.Track](s.songsPath())
	if err != nil {
		return nil, err
	}
	albums, err := readSnapshot[core.Album](s.albumsPath())
	if err != nil {
		return nil, err
	}
	return rebuild(songs.Items, albums.Items), nil
}

// Save implements Store. Each file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, lib *core.Library) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	tracks, albums := flatten(lib)
	now := time.Now()
	if err := writeSnapshot(s.songsPath(), tracks, now); err != nil {
		return err
	}
	return writeSnapshot(s.albumsPath(), albums, now)
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context) error {
	for _, p := range []string{s.songsPath(), s.albumsPath()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	return nil
}

// Info implements Store.
func (s *FileStore) Info(ctx context.Context) (*SnapshotInfo, error) {
	info := &SnapshotInfo{Backend: config.BackendFile, Location: s.dir}
	if !s.Exists(ctx) {
		return info, nil
	}
	info.Exists = true

	for _, p := range []string{s.songsPath(), s.albumsPath()} {
		if st, err := os.Stat(p); err == nil {
			info.Bytes += st.Size()
		}
	}

	songs, err := readSnapshot[core.Track](s.songsPath())
	if err != nil {
		return info, err
	}
	albums, err := readSnapshot[core.Album](s.albumsPath())
	if err != nil {
		return info, err
	}
	info.SavedAt = songs.SavedAt
	info.Tracks = len(songs.Items)
	info.Albums = len(albums.Items)
	return info, nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

func readSnapshot[T any](path string) (*snapshot[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), kerrors.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var snap snapshot[T]
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), kerrors.ErrSnapshotCorrupt, err)
	}
	if err := snap.verify(filepath.Base(path)); err != nil {
		return nil, err
	}
	return &snap, nil
}

func writeSnapshot[T any](path string, items []T, now time.Time) error {
	snap, err := newSnapshot(items, now)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
