package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds computed values keyed by string for a limited time.
// Concurrent misses for the same key share one build.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry[T]
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry[T any] struct {
	value T
	built time.Time
}

// NewCache creates a cache whose entries live for ttl.
// A zero ttl disables caching but still deduplicates concurrent builds.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*cacheEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache[T]) isExpired(e *cacheEntry[T]) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return c.now().Sub(e.built) > c.ttl
}

// GetOrBuild returns the cached value for key, or builds a new one if it doesn't exist or has expired.
// Uses singleflight to prevent cache stampedes.
func (c *Cache[T]) GetOrBuild(ctx context.Context, key string, build func(context.Context) (T, error)) (T, error) {
	// Fast path: check if entry exists and is fresh
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !c.isExpired(entry) {
		return entry.value, nil
	}

	// Slow path: build using singleflight to prevent stampedes
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !c.isExpired(entry) {
			return entry.value, nil
		}

		value, err := build(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry[T]{value: value, built: c.now()}
		c.mu.Unlock()

		return value, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Invalidate removes the entry for key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
