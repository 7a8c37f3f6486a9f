package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore implements a file-based store for CLI usage.
// Each layout is written as a JSON envelope carrying its ID and timestamps.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	ID        string    `json:"id"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get retrieves a layout.
func (s *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.read(s.path(id))
	if err != nil {
		return nil, err
	}
	return entry.Data, nil
}

// Put stores a layout, keeping the creation time of an existing entry.
func (s *FileStore) Put(ctx context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(id)
	now := time.Now().UTC()
	entry := fileEntry{ID: id, Data: data, CreatedAt: now, UpdatedAt: now}
	if prev, err := s.read(path); err == nil {
		entry.CreatedAt = prev.CreatedAt
	}

	out, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	return os.Rename(tmp, path)
}

// Delete removes a layout.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List walks the fan-out directories and returns the IDs recorded in the
// entries. Unreadable entries are skipped.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, err := s.read(path)
		if err != nil {
			return nil
		}
		ids = append(ids, entry.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	return sorted(ids), nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the base directory.
func (s *FileStore) Dir() string { return s.dir }

// Stat returns the creation and last update time of a layout.
func (s *FileStore) Stat(id string) (created, updated time.Time, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, err := s.read(s.path(id))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return entry.CreatedAt, entry.UpdatedAt, nil
}

func (s *FileStore) read(path string) (*fileEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt entry %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}

// path converts a layout ID to a file path.
// Uses a simple hash-based directory structure to avoid too many files in one dir.
func (s *FileStore) path(id string) string {
	hash := Hash([]byte(id))
	subdir := hash[:2]
	filename := hash[2:] + ".json"
	return filepath.Join(s.dir, subdir, filename)
}

var _ Store = (*FileStore)(nil)
