// Package cache provides the in-memory TTL cache the preview server keeps
// computed API responses in. It wraps patrickmn/go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. defaultTTL is the expiry for entries set with Set;
// cleanupInterval is how often expired items are purged.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Errors are not cached.
func (c *Cache) GetOrLoad(key string, load func() (any, error)) (any, bool, error) {
	if v, ok := c.store.Get(key); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		return nil, false, err
	}
	c.store.Set(key, v, gocache.DefaultExpiration)
	return v, false, nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache, including expired
// items not yet purged.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
