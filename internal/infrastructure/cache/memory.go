package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-memory key-value store with expiration
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store. Expired items are swept every
// cleanupInterval until Close is called; zero disables the sweeper.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go store.cleanupExpired(cleanupInterval)
	}

	return store
}

// Set stores a key-value pair with expiration. Zero expiration keeps the key forever.
func (ms *MemoryStore) Set(_ context.Context, key, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item := &memoryItem{value: value}
	if expiration > 0 {
		item.expireTime = ms.now().Add(expiration)
	}
	ms.items[key] = item
	return nil
}

// Get retrieves a value by key
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists || ms.expired(item) {
		return "", false, nil
	}
	return item.value, true, nil
}

// Pop retrieves and removes a value
func (ms *MemoryStore) Pop(_ context.Context, key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.items[key]
	if !exists {
		return "", false, nil
	}
	delete(ms.items, key)
	if ms.expired(item) {
		return "", false, nil
	}
	return item.value, true, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

func (ms *MemoryStore) expired(item *memoryItem) bool {
	return !item.expireTime.IsZero() && ms.now().After(item.expireTime)
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			for key, item := range ms.items {
				if ms.expired(item) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
