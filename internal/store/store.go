// SPDX-License-Identifier: MIT

// Package store persists derived note data (rendered HTML, backlink index)
// in a badger key-value store under the cache directory. Everything in here
// can be rebuilt from the notes root; losing the store only costs a reindex.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//   html:<stem>  -> htmlRecord (JSON)
//   backlinks    -> backlinkSnapshot (JSON)
const (
	htmlPrefix   = "html:"
	backlinksKey = "backlinks"
)

// Store is the badger-backed cache store.
type Store struct {
	db *badger.DB
}

type htmlRecord struct {
	ModTime int64  `json:"mtime"`
	HTML    []byte `json:"html"`
}

// backlinkSnapshot persists the backlink index together with the note
// mtimes it was computed from, so stale entries can be detected per note.
type backlinkSnapshot struct {
	Backlinks map[string][]string `json:"backlinks"`
	ModTimes  map[string]int64    `json:"mtimes"`
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	opts := badger.DefaultOptions(filepath.Join(dir, "store")).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the store is usable.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// GetHTML returns the cached rendered HTML for stem if the record's mtime
// matches modTime. A stale or missing record reports ok=false.
func (s *Store) GetHTML(stem string, modTime int64) ([]byte, bool, error) {
	var rec htmlRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(htmlPrefix + stem))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if rec.ModTime != modTime {
		return nil, false, nil
	}
	return rec.HTML, true, nil
}

// PutHTML stores rendered HTML for stem keyed by the source file's mtime.
func (s *Store) PutHTML(stem string, modTime int64, html []byte) error {
	buf, err := json.Marshal(htmlRecord{ModTime: modTime, HTML: html})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(htmlPrefix+stem), buf)
	})
}

// DeleteHTML drops the cached HTML for stem. Missing keys are not an error.
func (s *Store) DeleteHTML(stem string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(htmlPrefix + stem))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// PutBacklinks stores the backlink index with the mtimes it was built from.
func (s *Store) PutBacklinks(backlinks map[string][]string, modTimes map[string]int64) error {
	buf, err := json.Marshal(backlinkSnapshot{Backlinks: backlinks, ModTimes: modTimes})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(backlinksKey), buf)
	})
}

// GetBacklinks loads the persisted backlink index. ok=false when the store
// has no snapshot yet.
func (s *Store) GetBacklinks() (map[string][]string, map[string]int64, bool, error) {
	var snap backlinkSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(backlinksKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	return snap.Backlinks, snap.ModTimes, true, nil
}
