package cache

import (
	"sync"
	"time"

	"newspulse/app/feed"
)

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is the in-process backend used for tests and single-instance
// deployments. Writes swap whole entries under the lock, so a reader
// observes either the old or the new entry, never a mix.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
	}
}

func (c *MemoryCache) Get(key string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

func (c *MemoryCache) Put(key string, items []feed.Item, ttl time.Duration) {
	copied := make([]feed.Item, len(items))
	copy(copied, items)

	entry := &Entry{
		Key:        key,
		Items:      copied,
		WrittenAt:  time.Now().UTC(),
		TTLSeconds: int(ttl.Seconds()),
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		c.entries = make(map[string]*Entry)
		return
	}
	delete(c.entries, key)
}

func (c *MemoryCache) Health() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"status":    "healthy",
		"type":      "memory",
		"key_count": len(c.entries),
	}
}
