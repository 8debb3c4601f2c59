package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the eviction age applied when no TTL is configured.
const DefaultTTL = 3 * time.Hour

type entry struct {
	value    any
	storedAt time.Time
}

// Store is an in-memory key-value store with a fixed time-to-live.
// Expiry is checked on read; expired entries are deleted lazily.
// Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a Store with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key. An entry older than the TTL is
// deleted and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := s.entries[key]; still && cur.storedAt.Equal(e.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, resetting its age.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: time.Now()}
	s.mu.Unlock()
}

// Delete removes key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of stored entries, including any not yet evicted.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Flush removes all entries.
func (s *Store) Flush() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// TTL returns the configured time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Key builds a stable cache key from a prefix and alternating key-value
// pairs. Pairs are sorted by key so argument order does not matter.
func Key(prefix string, kvs ...any) string {
	if len(kvs) == 0 {
		return prefix
	}
	pairs := make([]string, 0, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", kvs[i], kvs[i+1]))
	}
	sort.Strings(pairs)
	return prefix + ":" + strings.Join(pairs, ":")
}
