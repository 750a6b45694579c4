package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrCorrupt is returned by Load when the persisted identifiers cannot be
// decoded. It is fatal: resetting to an empty set would re-notify every
// historical posting.
var ErrCorrupt = errors.New("dedup store is corrupt")

// Backend persists the full identifier set.
type Backend interface {
	// Load returns the persisted identifiers. A missing resource is not an
	// error and yields an empty slice.
	Load(ctx context.Context) ([]string, error)
	// Save replaces the persisted identifiers with ids, all or nothing.
	Save(ctx context.Context, ids []string) error
}

// DedupStore is the set of posting identifiers that have already been
// notified. It is owned by a single run and is not safe for concurrent use.
type DedupStore struct {
	backend Backend
	seen    map[string]struct{}
}

// Load reads the persisted identifiers from backend.
func Load(ctx context.Context, backend Backend) (*DedupStore, error) {
	ids, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := &DedupStore{
		backend: backend,
		seen:    make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.seen[id] = struct{}{}
	}
	return s, nil
}

// LoadFile loads a store backed by the JSON file at path.
func LoadFile(ctx context.Context, path string) (*DedupStore, error) {
	return Load(ctx, NewFileBackend(path))
}

// Contains reports whether id has been recorded.
func (s *DedupStore) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Record inserts id. It returns true if id was not already present.
func (s *DedupStore) Record(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Len returns the number of recorded identifiers.
func (s *DedupStore) Len() int {
	return len(s.seen)
}

// IDs returns the recorded identifiers in sorted order.
func (s *DedupStore) IDs() []string {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Persist writes the full identifier set to the backend.
func (s *DedupStore) Persist(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.IDs()); err != nil {
		return fmt.Errorf("persisting %d identifiers: %w", len(s.seen), err)
	}
	return nil
}
