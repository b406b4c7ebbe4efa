package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memStore struct {
	mu     sync.RWMutex
	byPath map[string]Visit
}

// NewMemStore returns a Store that forgets everything on exit.
func NewMemStore() Store {
	return &memStore{byPath: make(map[string]Visit)}
}

func (m *memStore) Record(ctx context.Context, v Visit) error {
	if v.OpenedAt.IsZero() {
		v.OpenedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPath[v.Path] = v
	return nil
}

func (m *memStore) Lookup(ctx context.Context, path string) (Visit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.byPath[path]
	if !ok {
		return Visit{}, ErrNotFound
	}
	return v, nil
}

func (m *memStore) Recent(ctx context.Context, limit int) ([]string, error) {
	m.mu.RLock()
	visits := make([]Visit, 0, len(m.byPath))
	for _, v := range m.byPath {
		visits = append(visits, v)
	}
	m.mu.RUnlock()

	sort.Slice(visits, func(i, j int) bool {
		if !visits[i].OpenedAt.Equal(visits[j].OpenedAt) {
			return visits[i].OpenedAt.After(visits[j].OpenedAt)
		}
		return visits[i].Path < visits[j].Path
	})
	if limit > 0 && len(visits) > limit {
		visits = visits[:limit]
	}
	out := make([]string, len(visits))
	for i, v := range visits {
		out[i] = v.Path
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }
