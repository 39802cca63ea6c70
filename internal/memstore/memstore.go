// Package memstore defines the Backend contract the tier runner persists
// through, and a map-keyed, mutex-guarded in-memory implementation usable
// both as a caller's default store and as the engine's own test fixture.
package memstore

import (
	"context"
	"sync"

	"github.com/bootstrapkit/tierengine/internal/types"
)

// Backend is the narrow persistence contract the core depends on. No
// other backend operation is invoked by the engine.
type Backend interface {
	UpsertFiles(ctx context.Context, records []types.FileKnowledge) error
	UpsertDirectories(ctx context.Context, records []types.DirectoryKnowledge) error
	GetFileByPath(ctx context.Context, absolutePath string) (types.FileKnowledge, bool, error)
}

// Store is an in-memory Backend: idempotent insert-or-replace by FileID /
// DirID, guarded by a single RWMutex since writes only ever happen
// serially between tiers but reads may happen concurrently within one.
type Store struct {
	mu          sync.RWMutex
	filesByID   map[string]types.FileKnowledge
	filesByPath map[string]string // absolutePath -> FileID
	dirsByID    map[string]types.DirectoryKnowledge
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		filesByID:   make(map[string]types.FileKnowledge),
		filesByPath: make(map[string]string),
		dirsByID:    make(map[string]types.DirectoryKnowledge),
	}
}

func (s *Store) UpsertFiles(_ context.Context, records []types.FileKnowledge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.filesByID[r.FileID] = r
		s.filesByPath[r.AbsolutePath] = r.FileID
	}
	return nil
}

func (s *Store) UpsertDirectories(_ context.Context, records []types.DirectoryKnowledge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.dirsByID[r.DirID] = r
	}
	return nil
}

func (s *Store) GetFileByPath(_ context.Context, absolutePath string) (types.FileKnowledge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.filesByPath[absolutePath]
	if !ok {
		return types.FileKnowledge{}, false, nil
	}
	rec, ok := s.filesByID[id]
	return rec, ok, nil
}

// Files returns a snapshot slice of every persisted FileKnowledge, for
// test assertions and caller introspection.
func (s *Store) Files() []types.FileKnowledge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.FileKnowledge, 0, len(s.filesByID))
	for _, r := range s.filesByID {
		out = append(out, r)
	}
	return out
}

// Directories returns a snapshot slice of every persisted
// DirectoryKnowledge.
func (s *Store) Directories() []types.DirectoryKnowledge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DirectoryKnowledge, 0, len(s.dirsByID))
	for _, r := range s.dirsByID {
		out = append(out, r)
	}
	return out
}
