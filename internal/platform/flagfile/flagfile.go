// Package flagfile provides a tiny durable key-value flag store backed by a
// single JSON file. It is deliberately independent of the main SQLite store:
// the only thing kept here are one-off markers such as "media downloaded",
// which future launches read without touching the asset cache at all.
package flagfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/phrazzld/birdstudy/internal/store"
)

// Store is a file-backed flag store. All methods are safe for concurrent use.
type Store struct {
	path  string
	mu    sync.Mutex
	flags map[string]string
}

// Ensure Store implements store.FlagStore interface
var _ store.FlagStore = (*Store)(nil)

// Open loads the flag file at path, creating an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		flags: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("%w: failed to read flag file: %v", store.ErrStorageUnavailable, err)
	}

	if err := json.Unmarshal(data, &s.flags); err != nil {
		return nil, fmt.Errorf("%w: corrupt flag file: %v", store.ErrStorageUnavailable, err)
	}

	return s, nil
}

// Get reports the stored value for a flag and whether it was ever set.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.flags[key]
	return value, ok
}

// Set durably records a flag value. The file is rewritten atomically via a
// rename so a crash mid-write never corrupts previously stored flags.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[key] = value

	data, err := json.MarshalIndent(s.flags, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}

	return nil
}
