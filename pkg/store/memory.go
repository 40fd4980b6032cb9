package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// MemoryStore is an in-memory diagram store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get retrieves a diagram by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return model.Diagram{}, ErrNotFound
	}
	return e.Diagram, nil
}

// Put stores a diagram under its ID.
func (s *MemoryStore) Put(ctx context.Context, d model.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[d.ID] = Entry{Diagram: d, UpdatedAt: time.Now()}
	return nil
}

// Delete removes a diagram.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// List returns summaries of all stored diagrams, sorted by ID.
func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.entries))
	for id, e := range s.entries {
		infos = append(infos, Info{
			ID:         id,
			Name:       e.Diagram.Name,
			Rectangles: len(e.Diagram.Rectangles),
			UpdatedAt:  e.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
