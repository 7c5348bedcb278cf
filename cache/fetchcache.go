package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a cache when no explicit size is configured.
const DefaultMaxEntries = 64

// Stats is a point-in-time view of cache occupancy for observability.
type Stats struct {
	Size               int     `json:"size"`
	MaxSize            int     `json:"max_size"`
	PendingCount       int     `json:"pending_count"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

type entry[V any] struct {
	value      V
	lastAccess time.Time
}

// call tracks one in-flight producer invocation. Waiters block on done and
// then read value/err, which are written exactly once before close.
type call[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Cache is a bounded key -> value store with LRU eviction and in-flight
// request deduplication. Pending fetches are tracked separately and do not
// count toward the size bound. Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	now     func() time.Time
	entries map[string]*entry[V]
	pending map[string]*call[V]
}

// New creates a cache holding at most maxSize entries. A non-positive
// maxSize falls back to DefaultMaxEntries.
func New[V any](maxSize int) *Cache[V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxEntries
	}
	return &Cache[V]{
		maxSize: maxSize,
		now:     time.Now,
		entries: map[string]*entry[V]{},
		pending: map[string]*call[V]{},
	}
}

// Get returns the cached value for key and refreshes its access time.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.lastAccess = c.now()
	return e.value, true
}

// Set stores value under key, evicting the least-recently-accessed entry
// first when the cache is at capacity and key is new.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

func (c *Cache[V]) setLocked(key string, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.lastAccess = c.now()
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[key] = &entry[V]{value: value, lastAccess: c.now()}
}

func (c *Cache[V]) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.lastAccess.Before(oldest) {
			first = false
			oldestKey = k
			oldest = e.lastAccess
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Has reports whether key is cached, without refreshing its access time.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Delete removes key from the cache if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry. Pending fetches are left to complete; their
// results are still delivered to waiters but are not cached.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*entry[V]{}
	c.pending = map[string]*call[V]{}
}

// ClearExcept removes every entry and every pending fetch whose key is not
// in keepKeys. Used on route switches to retain only the new route's data.
func (c *Cache[V]) ClearExcept(keepKeys []string) {
	keep := make(map[string]struct{}, len(keepKeys))
	for _, k := range keepKeys {
		keep[k] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if _, ok := keep[k]; !ok {
			delete(c.entries, k)
		}
	}
	for k := range c.pending {
		if _, ok := keep[k]; !ok {
			delete(c.pending, k)
		}
	}
}

// GetOrFetch returns the cached value for key, or invokes producer to obtain
// it. Concurrent callers for the same key share a single producer invocation
// and observe the same result. The pending slot is cleared on completion
// whether the producer succeeded or failed, so a later call retries after a
// failure instead of caching it.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, producer func(ctx context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.lastAccess = c.now()
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	if p, ok := c.pending[key]; ok {
		c.mu.Unlock()
		select {
		case <-p.done:
			return p.value, p.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
	p := &call[V]{done: make(chan struct{})}
	c.pending[key] = p
	c.mu.Unlock()

	value, err := producer(ctx)

	c.mu.Lock()
	if cur, ok := c.pending[key]; ok && cur == p {
		delete(c.pending, key)
		if err == nil {
			c.setLocked(key, value)
		}
	}
	c.mu.Unlock()

	p.value = value
	p.err = err
	close(p.done)
	return value, err
}

// Stats returns current occupancy counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Size:         len(c.entries),
		MaxSize:      c.maxSize,
		PendingCount: len(c.pending),
	}
	if c.maxSize > 0 {
		s.UtilizationPercent = float64(s.Size) / float64(c.maxSize) * 100
	}
	return s
}
