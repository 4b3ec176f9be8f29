package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	createdAt time.Time
	expiresAt time.Time
}

// Stats summarizes cache occupancy. Expired counts entries past their
// TTL that have not been swept yet; stale entries are only removed
// lazily on read.
type Stats struct {
	Total      int     `json:"total"`
	Active     int     `json:"active"`
	Expired    int     `json:"expired"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// Cache is an in-process key/value cache with per-entry TTL. Expiry is
// checked lazily on Get; there is no background sweeper. All methods
// are safe for concurrent use.
//
// The cache is never the source of truth: a fresh (empty) cache must
// behave identically to an all-miss state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache on construction.
type Option func(*Cache)

// WithClock overrides the time source. Test harnesses use this to
// simulate expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Cache with the given default TTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key, or (nil, false) on a miss. An entry
// past its TTL is evicted and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores a value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores a value under key with an explicit TTL.
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = entry{value: value, createdAt: now, expiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	return ok
}

// Has reports whether key is present, ignoring expiry.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	return ok
}

// InvalidatePattern removes every entry whose key contains substr and
// returns the number removed.
func (c *Cache) InvalidatePattern(substr string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k := range c.entries {
		if strings.Contains(k, substr) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats returns occupancy counters without evicting anything.
func (c *Cache) Stats() Stats {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Total: len(c.entries), TTLSeconds: c.ttl.Seconds()}
	for _, e := range c.entries {
		if now.After(e.expiresAt) {
			s.Expired++
		} else {
			s.Active++
		}
	}
	return s
}
