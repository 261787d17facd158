package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store. Expired entries are dropped on read
// and by Purge.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(item.expires) {
		m.mu.Lock()
		// A Set may have replaced the entry since the read lock was released.
		if cur, ok := m.items[key]; ok && !m.now().Before(cur.expires) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return item.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	cpy := make([]byte, len(data))
	copy(cpy, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{data: cpy, expires: m.now().Add(ttl)}

	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)

	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Purge drops expired entries.
func (m *Memory) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, v := range m.items {
		if !now.Before(v.expires) {
			delete(m.items, k)
		}
	}
}
