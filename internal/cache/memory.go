package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry     *Entry
	expiresAt time.Time
}

// MemoryCache implements Cache in process memory.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryItem
	now     func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache. A non-positive ttl disables caching.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryItem),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, groupID string) (*Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[groupID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(item.expiresAt) {
		delete(c.entries, groupID)
		return nil, false, nil
	}
	return item.entry, true, nil
}

func (c *MemoryCache) Set(_ context.Context, groupID string, entry *Entry) error {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[groupID] = memoryItem{entry: entry, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, groupID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, groupID)
	return nil
}

func (c *MemoryCache) Close() error { return nil }
