package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the record as a single JSON document. Writes go through
// a temp file and rename so a crash mid-write leaves either the old record
// or the new one, never a torn mix of the two keys.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The parent directory is
// created on the first Save, not here; constructing a store is allocation-only.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credstore: file path required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("credstore: read %s: %w", s.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if len(rec.Profile) > 0 && !json.Valid(rec.Profile) {
		return Record{}, fmt.Errorf("%w: %s: invalid profile json", ErrCorrupt, s.path)
	}
	return rec, nil
}

func (s *FileStore) Save(_ context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("credstore: encode record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ihdrs-session-*")
	if err != nil {
		return fmt.Errorf("credstore: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credstore: chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credstore: replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credstore: remove %s: %w", s.path, err)
	}
	return nil
}
