package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLMap is a thread-safe map whose entries expire after a fixed duration.
// It backs the derived-key cache: entries are read-mostly under concurrent
// encrypt/decrypt load, and the TTL bounds how long a rotated-away key
// version keeps being served from cache.
type TTLMap struct {
	mu      sync.RWMutex
	entries map[string]*ttlEntry
	ttl     time.Duration
}

// NewTTLMap creates an empty map whose entries live for ttl after each Set.
func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		entries: make(map[string]*ttlEntry),
		ttl:     ttl,
	}
}

// Get returns the value for key if present and not expired. An expired
// entry is evicted on sight so stale key material does not linger.
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	if !exists {
		m.mu.RUnlock()
		return nil, false
	}
	expired := time.Now().After(entry.expiresAt)
	value := entry.value
	m.mu.RUnlock()

	if expired {
		m.mu.Lock()
		// recheck under the write lock: a concurrent Set may have
		// refreshed the entry since the read lock was dropped
		if current, ok := m.entries[key]; ok && time.Now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return value, true
}

// Set stores value under key, resetting its expiry to now plus the TTL.
func (m *TTLMap) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = &ttlEntry{
		value:     value,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// Delete removes key regardless of its expiry.
func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear drops every entry. The keyring calls this when a tenant's key
// version advances so no caller can read a key derived from the old version.
func (m *TTLMap) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*ttlEntry)
}
