package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	body    []byte
	expires time.Time
}

// MemoryCache is an in-process ResponseCache. Entries do not survive restarts.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get returns a copy of the cached body for key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.body...), nil
}

// Set stores a copy of body under key until ttl elapses.
func (c *MemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		body:    append([]byte(nil), body...),
		expires: c.now().Add(ttl),
	}
	return nil
}

// Prune drops expired entries.
func (c *MemoryCache) Prune(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	var n int64
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

// Close is a no-op.
func (c *MemoryCache) Close() error { return nil }
