package gateway

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cache memoizes expensive reads for a fixed TTL. Staleness is driven by an
// injected clock so expiry is testable. Entries are overwritten, never
// evicted: the key space is the fixed set of entity names.
type Cache[V any] struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry[V]
}

type cacheEntry[V any] struct {
	value     V
	fetchedAt time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache[V any](ttl time.Duration, clk clockwork.Clock) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the value for key while it is younger than the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.clock.Now().Sub(entry.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Stale returns the value for key regardless of age. Used to keep serving
// the previous result when every store fails a refetch.
func (c *Cache[V]) Stale(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Put stores value under key, resetting its age.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[V]{value: value, fetchedAt: c.clock.Now()}
}
