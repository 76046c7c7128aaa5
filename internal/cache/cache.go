// Package cache provides a small thread-safe TTL cache used to memoize
// dossier views and to invalidate them after pull-request actions.
//
// Keys are scope-prefixed paths like "dossier/org/repo/login" so that a
// whole scope can be dropped in one call after a mutation.
package cache

import (
	"strings"
	"sync"
	"time"
)

// item is a cached value with its expiration instant.
type item struct {
	data      []byte
	expiresAt time.Time
}

func (i *item) expired() bool {
	return time.Now().After(i.expiresAt)
}

// Cache is a thread-safe in-memory store with a fixed TTL per entry.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*item
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]*item),
		ttl:   ttl,
	}
}

// Key joins path segments into a scope-prefixed cache key.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// Get returns the cached bytes for key, or false when absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired() {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return it.data, true
}

// Set stores data under key with the cache's TTL.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &item{
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// InvalidateScope removes every entry whose key starts with the given scope
// prefix and reports how many were dropped.
func (c *Cache) InvalidateScope(scope string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	dropped := 0
	for key := range c.items {
		if strings.HasPrefix(key, scope) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
