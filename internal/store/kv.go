package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// KV is the raw persistence contract: whole values addressed by key.
// Implementations must treat a missing key as absent, not as an error.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMany overwrites several keys atomically.
	SetMany(ctx context.Context, values map[string][]byte) error

	// Delete removes keys.
	Delete(ctx context.Context, keys ...string) error
}

// MemKV is an in-memory KV for tests and throwaway sessions.
type MemKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ KV = (*MemKV)(nil)

// NewMemKV creates an empty MemKV.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return slices.Clone(v), ok, nil
}

func (m *MemKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemKV) SetMany(_ context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.data[k] = slices.Clone(v)
	}
	return nil
}

func (m *MemKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemKV) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.data))
}
