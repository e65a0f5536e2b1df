// SPDX-License-Identifier: MPL-2.0

package toolcache

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is used when a cache is created with a non-positive capacity.
const DefaultCapacity = 64

type (
	// Cache is a bounded LRU cache. The zero value is not usable; call New.
	Cache[V any] struct {
		mu     sync.Mutex
		lru    *lru.Cache
		group  singleflight.Group
		logger *log.Logger
		name   string
		stats  Stats
	}

	// Stats counts cache traffic since creation.
	Stats struct {
		Hits   uint64
		Misses uint64
		// Evictions counts dropped entries, whether pushed out by capacity
		// or removed by Evict and Purge.
		Evictions uint64
	}

	// Option configures a Cache.
	Option func(*options)

	options struct {
		logger *log.Logger
		name   string
	}
)

// WithLogger logs hits, misses and evictions at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the cache in log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// New creates a cache holding at most capacity entries.
func New[V any](capacity int, opts ...Option) *Cache[V] {
	o := options{logger: log.New(io.Discard), name: "cache"}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &Cache[V]{lru: lru.New(capacity), logger: o.logger, name: o.name}
	// Called with c.mu held by every mutating method.
	c.lru.OnEvicted = func(key lru.Key, _ any) {
		c.stats.Evictions++
		c.logger.Debug("cache eviction", "cache", c.name, "key", key)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.lru.Get(key); ok {
		c.stats.Hits++
		c.logger.Debug("cache hit", "cache", c.name, "key", key)
		return v.(V), true
	}
	c.stats.Misses++
	var zero V
	return zero, false
}

// Add stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, value)
}

// GetOrLoad returns the cached value for key or calls load once, even when
// several goroutines ask for the same missing key, and caches its result.
// Errors are not cached.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.peek(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// peek looks up key without touching the statistics.
func (c *Cache[V]) peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.lru.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Evict removes key and reports whether it was present.
func (c *Cache[V]) Evict(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lru.Get(key); !ok {
		return false
	}
	c.lru.Remove(key)
	return true
}

// Purge removes every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Clear()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Stats returns a snapshot of the traffic counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}
