package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/moviereview/movie-api/internal/movie"
)

// MemoryStore is an in-process Store used for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]movie.Movie
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]movie.Movie)}
}

func (m *MemoryStore) Create(_ context.Context, mv *movie.Movie) (*movie.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := *mv
	doc.ID = uuid.NewString()
	m.store[doc.ID] = doc
	return &doc, nil
}

func (m *MemoryStore) Get(_ context.Context, key Key) (*movie.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[key.ID]; ok {
		return &d, nil
	}
	return nil, nil
}

func (m *MemoryStore) Query(_ context.Context, f Filter) ([]*movie.Movie, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*movie.Movie, 0, len(m.store))
	for _, d := range m.store {
		if f.Match(&d) {
			d := d
			out = append(out, &d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Replace(_ context.Context, key Key, mv *movie.Movie) (*movie.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key.ID]; !ok {
		return nil, ErrNotFound
	}
	doc := *mv
	doc.ID = key.ID
	m.store[key.ID] = doc
	return &doc, nil
}

func (m *MemoryStore) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key.ID)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error  { return nil }
func (m *MemoryStore) Close(context.Context) error { return nil }
