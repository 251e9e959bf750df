// Package localstore persists the unauthenticated user's state (liked songs,
// recently played, volume) under fixed keys in a JSON file in the XDG data
// directory. Gateway data supersedes it once a session exists.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
)

// Fixed storage keys.
const (
	keyLikedSongs     = "likedSongs"
	keyRecentlyPlayed = "recentlyPlayed"
	keyVolume         = "volume"
)

// Store is a small file-backed key-value store. Every mutation rewrites the
// backing file.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// New opens the store at the default XDG data path, creating it if missing.
func New() (*Store, error) {
	path, err := xdg.DataFile("musicapp/state.json")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data file path: %w", err)
	}
	return NewAt(path)
}

// NewAt opens a store at an explicit path. Used by tests.
func NewAt(path string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt state file is discarded rather than blocking startup.
		logger.Warn("discarding unreadable local state", logger.String("path", path), logger.ErrorField(err))
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

// LikedSongs returns the persisted liked-song snapshots.
func (s *Store) LikedSongs() []model.Song {
	var songs []model.Song
	s.get(keyLikedSongs, &songs)
	return songs
}

// SaveLikedSongs persists the liked-song snapshots.
func (s *Store) SaveLikedSongs(songs []model.Song) error {
	return s.set(keyLikedSongs, songs)
}

// RecentlyPlayed returns the persisted recently-played entries.
func (s *Store) RecentlyPlayed() []model.RecentlyPlayed {
	var entries []model.RecentlyPlayed
	s.get(keyRecentlyPlayed, &entries)
	return entries
}

// SaveRecentlyPlayed persists the recently-played entries.
func (s *Store) SaveRecentlyPlayed(entries []model.RecentlyPlayed) error {
	return s.set(keyRecentlyPlayed, entries)
}

// Volume returns the persisted volume percentage, if any.
func (s *Store) Volume() (int, bool) {
	var v int
	if !s.get(keyVolume, &v) {
		return 0, false
	}
	return v, true
}

// SaveVolume persists the volume percentage.
func (s *Store) SaveVolume(percent int) error {
	return s.set(keyVolume, percent)
}

func (s *Store) get(key string, out interface{}) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn("failed to decode local state key", logger.String("key", key), logger.ErrorField(err))
		return false
	}
	return true
}

func (s *Store) set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	out, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
