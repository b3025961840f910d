package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Memory is an in-process Cache: a map of JSON blobs with per-entry
// deadlines. There is no sweeper; expired entries are dropped on the
// next access and recomputed by the caller. The clock is injectable so
// tests control expiry.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemory creates an in-memory cache using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates an in-memory cache with a custom clock.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// GetJSON decodes the entry under key into dest, or returns ErrNotFound
// when the key is absent or expired.
func (m *Memory) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; another writer may have
		// refreshed the entry in between.
		if current, still := m.entries[key]; still && m.now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return ErrNotFound
	}

	return json.Unmarshal(entry.data, dest)
}

// SetJSON stores value under key for ttl.
func (m *Memory) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete removes the given keys.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory cache.
func (m *Memory) Close() error {
	return nil
}
