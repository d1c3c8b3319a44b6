package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a UserStore kept in process memory. It is safe for
// concurrent use and a successful Save is visible to every later lookup.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) Save(_ context.Context, in *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.Username]; ok {
		return nil, ErrDuplicateUser
	}
	s.nextID++
	u := *in
	u.ID = s.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.Username] = u
	return &u, nil
}
