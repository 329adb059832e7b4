package users

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps users in process memory for dev/testing.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]User
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byName: make(map[string]User)}
}

func (m *MemoryStore) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.byName)), nil
}

func (m *MemoryStore) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryStore) CreateIfAbsent(_ context.Context, u *User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return false, nil
	}
	m.nextID++
	u.ID = m.nextID
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	m.byName[u.Username] = *u
	return true, nil
}
