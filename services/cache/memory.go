package cache

import (
	"sort"
	"sync"
	"time"
)

// memoryEntry is a single cached value with its insertion time.
type memoryEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache implements CacheService with an in-process map. Entries
// expire by TTL, and when the entry count exceeds the capacity ceiling
// the oldest entries by insertion time are evicted in one batch.
type MemoryCache struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	capacity  int
	evictSize int
	now       func() time.Time
}

// NewMemoryCache creates a new in-memory cache. capacity is the entry
// ceiling; evictSize is how many of the oldest entries are dropped when
// the ceiling is exceeded.
func NewMemoryCache(capacity, evictSize int) *MemoryCache {
	return &MemoryCache{
		entries:   make(map[string]memoryEntry),
		capacity:  capacity,
		evictSize: evictSize,
		now:       time.Now,
	}
}

// SetClock replaces the cache's clock, for tests.
func (m *MemoryCache) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	now := m.now()
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if now.After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value in the cache with an expiration time
func (m *MemoryCache) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[key] = memoryEntry{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(expiration),
	}

	if len(m.entries) > m.capacity {
		m.evictOldest()
	}
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of entries currently held.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictOldest drops the evictSize oldest entries by insertion time.
// Caller must hold the write lock.
func (m *MemoryCache) evictOldest() {
	type keyed struct {
		key      string
		storedAt time.Time
	}

	all := make([]keyed, 0, len(m.entries))
	for k, e := range m.entries {
		all = append(all, keyed{key: k, storedAt: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].storedAt.Before(all[j].storedAt)
	})

	n := m.evictSize
	if n > len(all) {
		n = len(all)
	}
	for _, e := range all[:n] {
		delete(m.entries, e.key)
	}
}
