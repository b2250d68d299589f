// Package cache provides the key/value memoisation used for search results
// and translations. Entries never expire; callers clear a cache when the
// data behind it changes.
package cache

import (
	"context"
	"sync"
)

// Cache maps string keys to values of type V. Implementations are safe for
// concurrent use. A failed lookup is a miss, never an error.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Clear(ctx context.Context)
}

// Memory is an in-process Cache.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewMemory returns an empty in-process cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: make(map[string]V)}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *Memory[V]) Set(_ context.Context, key string, value V) {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
}

func (m *Memory[V]) Clear(_ context.Context) {
	m.mu.Lock()
	m.entries = make(map[string]V)
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
