package inventory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a Store kept in process memory, safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	sweets map[int64]Sweet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sweets: make(map[int64]Sweet)}
}

func (m *MemoryStore) Create(_ context.Context, s *Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	s.ID = m.nextID
	s.CreatedAt = now
	s.UpdatedAt = now
	m.sweets[s.ID] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (*Sweet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Sweet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := []Sweet{}
	for _, s := range m.sweets {
		if f.matches(&s) {
			res = append(res, s)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *MemoryStore) Update(_ context.Context, s *Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sweets[s.ID]
	if !ok {
		return ErrNotFound
	}
	s.CreatedAt = cur.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	m.sweets[s.ID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[id]; !ok {
		return ErrNotFound
	}
	delete(m.sweets, id)
	return nil
}

func (m *MemoryStore) AdjustQuantity(_ context.Context, id int64, delta int) (*Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Quantity+delta < 0 {
		return nil, ErrInsufficientStock
	}
	s.Quantity += delta
	s.UpdatedAt = time.Now().UTC()
	m.sweets[id] = s
	return &s, nil
}
