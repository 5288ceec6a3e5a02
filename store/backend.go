package store

import (
	"context"
	"sort"
	"sync"

	"github.com/reoring/pathstore/record"
)

// Backend resolves record keys to wrappers. Lookups may block and may report
// a key as absent; errors are propagated to the caller of the store operation.
type Backend interface {
	GetSingleRecordItem(ctx context.Context, key string) (*record.Wrapper, bool, error)
	// GetMultipleRecordItems returns the wrappers that exist; absent keys are
	// left out of the map.
	GetMultipleRecordItems(ctx context.Context, keys []string) (map[string]*record.Wrapper, error)
	PutRecordItem(ctx context.Context, key string, w *record.Wrapper) error
	// DeleteRecordItem removes key and returns the wrapper it held.
	DeleteRecordItem(ctx context.Context, key string) (*record.Wrapper, bool, error)
	// ReplaceRecordItems swaps the whole collection for items.
	ReplaceRecordItems(ctx context.Context, items map[string]*record.Wrapper) error
}

// Memory is a Backend held in process memory.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*record.Wrapper
}

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{items: map[string]*record.Wrapper{}}
}

func (m *Memory) GetSingleRecordItem(_ context.Context, key string) (*record.Wrapper, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.items[key]
	return w, ok, nil
}

func (m *Memory) GetMultipleRecordItems(_ context.Context, keys []string) (map[string]*record.Wrapper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*record.Wrapper, len(keys))
	for _, k := range keys {
		if w, ok := m.items[k]; ok {
			out[k] = w
		}
	}
	return out, nil
}

func (m *Memory) PutRecordItem(_ context.Context, key string, w *record.Wrapper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = w
	return nil
}

func (m *Memory) DeleteRecordItem(_ context.Context, key string) (*record.Wrapper, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.items[key]
	delete(m.items, key)
	return w, ok, nil
}

func (m *Memory) ReplaceRecordItems(_ context.Context, items map[string]*record.Wrapper) error {
	next := make(map[string]*record.Wrapper, len(items))
	for k, w := range items {
		next[k] = w
	}
	m.mu.Lock()
	m.items = next
	m.mu.Unlock()
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.items))
	for k := range m.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
