package client

import (
	"strings"
	"sync"
)

// Cache stores fetched job pages by canonical query key. Entries are
// replaced or dropped, never edited in place.
//
// Generation advances on every invalidation. A fetch records it before the
// request goes out and stores its result with SetIfCurrent, so a response
// that raced a mutation is never cached.
type Cache interface {
	Get(key string) (Page, bool)
	Set(key string, page Page)
	SetIfCurrent(key string, page Page, generation uint64) bool
	Generation() uint64
	Invalidate(key string)
	InvalidatePrefix(prefix string)
}

type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]Page
	generation uint64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Page)}
}

func (c *MemoryCache) Get(key string) (Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[key]
	return p, ok
}

func (c *MemoryCache) Set(key string, page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = page
}

// SetIfCurrent stores page only if nothing was invalidated since generation.
func (c *MemoryCache) SetIfCurrent(key string, page Page, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return false
	}
	c.entries[key] = page
	return true
}

func (c *MemoryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	delete(c.entries, key)
}

// InvalidatePrefix drops every key starting with prefix; "" clears the cache.
func (c *MemoryCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
