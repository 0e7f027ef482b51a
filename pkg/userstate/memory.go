package userstate

import (
	"sync"

	"golang.org/x/net/context"
)

// MemoryStore is a Store which keeps the state in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Get(ctx context.Context, visitor, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[visitor][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, visitor, key, value string) error {
	m.mu.Lock()
	if m.values[visitor] == nil {
		m.values[visitor] = make(map[string]string)
	}
	m.values[visitor][key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, visitor, key string) error {
	m.mu.Lock()
	delete(m.values[visitor], key)
	if len(m.values[visitor]) == 0 {
		delete(m.values, visitor)
	}
	m.mu.Unlock()
	return nil
}
