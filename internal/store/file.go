package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var _ Backend = (*FileBackend)(nil)

// FileBackend stores identifiers as a JSON array of strings in a single file.
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers never observe a truncated file.
type FileBackend struct {
	path string

	// beforeRename runs after the temp file is fully written and synced.
	// Tests use it to simulate a crash mid-persist.
	beforeRename func(tmpPath string) error
}

// NewFileBackend returns a backend for the JSON file at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file the backend reads and writes.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the identifier list. A missing file yields an empty list; any
// content that is not a JSON array of non-empty strings wraps ErrCorrupt.
func (b *FileBackend) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %s is not a JSON array", ErrCorrupt, b.path)
	}

	var ids []string
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrCorrupt, b.path, err)
	}
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: %s has an empty identifier at index %d", ErrCorrupt, b.path, i)
		}
	}
	return ids, nil
}

// Save atomically replaces the file with ids encoded as a JSON array.
func (b *FileBackend) Save(_ context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding identifiers: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	if b.beforeRename != nil {
		if err := b.beforeRename(tmpPath); err != nil {
			return err
		}
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	committed = true
	return nil
}
