package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the durable backend for the persisted aggregate. Load returns
// (nil, nil) when no snapshot exists yet.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStorage persists the snapshot to a single local file, written
// atomically via a temp file and rename.
type FileStorage struct {
	Path string
}

// NewFileStorage creates a file-backed storage at the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// Load reads the snapshot file. A missing file is not an error.
func (f *FileStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.Path, err)
	}
	return data, nil
}

// Save writes the snapshot atomically.
func (f *FileStorage) Save(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}

	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// NoopStorage discards writes and never finds a snapshot. It substitutes for
// durable storage in contexts without one (tests, dry runs).
type NoopStorage struct{}

// Load always reports no snapshot.
func (NoopStorage) Load() ([]byte, error) { return nil, nil }

// Save discards the snapshot.
func (NoopStorage) Save([]byte) error { return nil }
