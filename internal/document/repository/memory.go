package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/doclab/doclab/internal/document"
)

// MemoryRepo keeps records in process memory. Nothing survives a restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	order  []int64
	store  map[int64]*document.Detail
	lastID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*document.Detail)}
}

// NextID hands out ids above every id seen so far, including seeded ones.
func (m *MemoryRepo) NextID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	return m.lastID, nil
}

func (m *MemoryRepo) Insert(ctx context.Context, d *document.Detail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[d.ID]; ok {
		return fmt.Errorf("document %d already exists", d.ID)
	}
	m.store[d.ID] = d.Clone()
	m.order = append(m.order, d.ID)
	if d.ID > m.lastID {
		m.lastID = d.ID
	}
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int64) (*document.Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		return d.Clone(), nil
	}
	return nil, &document.NotFoundError{ID: id}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*document.Detail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Detail, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Replace(ctx context.Context, d *document.Detail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[d.ID]; !ok {
		return &document.NotFoundError{ID: d.ID}
	}
	m.store[d.ID] = d.Clone()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return &document.NotFoundError{ID: id}
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepo) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}
