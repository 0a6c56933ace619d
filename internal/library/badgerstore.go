package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/core"
	kerrors "github.com/tessro/kodictl/internal/errors"
)

// Keys of the two snapshot blobs.
const (
	songsKey  = "snapshot:songs"
	albumsKey = "snapshot:albums"
)

// BadgerStore keeps the snapshot in a BadgerDB key-value store.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// OpenBadgerStore opens (or creates) a database under dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for library: %w", err)
	}
	return &BadgerStore{db: db, path: dir}, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Exists implements Store.
func (s *BadgerStore) Exists(ctx context.Context) bool {
	err := s.db.View(func(txn *badger.Txn) error {
		for _, k := range []string{songsKey, albumsKey} {
			if _, err := txn.Get([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	return err == nil
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context) (*core.Library, error) {
	var songs snapshot[core.Track]
	var albums snapshot[core.Album]

	err := s.db.View(func(txn *badger.Txn) error {
		if err := getSnapshot(txn, songsKey, &songs); err != nil {
			return err
		}
		return getSnapshot(txn, albumsKey, &albums)
	})
	if err != nil {
		return nil, err
	}
	if err := songs.verify(songsKey); err != nil {
		return nil, err
	}
	if err := albums.verify(albumsKey); err != nil {
		return nil, err
	}
	return rebuild(songs.Items, albums.Items), nil
}

// Save implements Store. Both blobs are written in one transaction.
func (s *BadgerStore) Save(ctx context.Context, lib *core.Library) error {
	tracks, albums := flatten(lib)
	now := time.Now()

	songs, err := newSnapshot(tracks, now)
	if err != nil {
		return err
	}
	albumSnap, err := newSnapshot(albums, now)
	if err != nil {
		return err
	}
	songsData, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("marshal songs snapshot: %w", err)
	}
	albumsData, err := json.Marshal(albumSnap)
	if err != nil {
		return fmt.Errorf("marshal albums snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(songsKey), songsData); err != nil {
			return fmt.Errorf("set songs snapshot: %w", err)
		}
		if err := txn.Set([]byte(albumsKey), albumsData); err != nil {
			return fmt.Errorf("set albums snapshot: %w", err)
		}
		return nil
	})
}

// Delete implements Store.
func (s *BadgerStore) Delete(ctx context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range []string{songsKey, albumsKey} {
			if err := txn.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	})
}

// Info implements Store.
func (s *BadgerStore) Info(ctx context.Context) (*SnapshotInfo, error) {
	info := &SnapshotInfo{Backend: config.BackendBadger, Location: s.path}
	if !s.Exists(ctx) {
		return info, nil
	}
	info.Exists = true

	lsm, vlog := s.db.Size()
	info.Bytes = lsm + vlog

	var songs snapshot[core.Track]
	var albums snapshot[core.Album]
	err := s.db.View(func(txn *badger.Txn) error {
		if err := getSnapshot(txn, songsKey, &songs); err != nil {
			return err
		}
		return getSnapshot(txn, albumsKey, &albums)
	})
	if err != nil {
		return info, err
	}
	info.SavedAt = songs.SavedAt
	info.Tracks = len(songs.Items)
	info.Albums = len(albums.Items)
	return info, nil
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func getSnapshot[T any](txn *badger.Txn, key string, out *snapshot[T]) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, kerrors.ErrSnapshotNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, out); err != nil {
			return fmt.Errorf("%s: %w: %v", key, kerrors.ErrSnapshotCorrupt, err)
		}
		return nil
	})
}
