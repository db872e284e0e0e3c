// Package cachemanager wraps a TTL cache with typed accessors. The registry
// uses it to hold pinned sentinels strongly until their pin expires.
package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/sentinels/internal/log"
)

// NoExpiration pins an entry until it is explicitly deleted.
const NoExpiration = gocache.NoExpiration

const defaultCleanupInterval = time.Minute

// Cache is a typed TTL cache over go-cache. Values are held strongly for
// their lifetime in the cache.
type Cache[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// New creates a cache whose expired entries are swept at cleanupInterval.
func New[V any](useCase string, cleanupInterval time.Duration) *Cache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	return &Cache[V]{
		useCase: useCase,
		cache:   gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves an item by key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "use_case", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "use_case", c.useCase, "key", key)
	return v, true
}

// Set stores value under key for ttl; ttl <= 0 means NoExpiration.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = NoExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes the entry for key, if any.
func (c *Cache[V]) Delete(key string) {
	c.cache.Delete(key)
}

// Flush drops every entry.
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// Len returns the number of live entries, counting not-yet-swept expired ones.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
