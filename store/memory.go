package store

import (
	"context"
	"sync"

	models "storefront/model"
)

// MemoryStore keeps selections in process memory. They are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (m *MemoryStore) GetSelection(_ context.Context, key string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[key]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) SaveSelection(_ context.Context, key string, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[key] = u
	return nil
}

func (m *MemoryStore) DeleteSelection(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
