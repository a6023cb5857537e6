package memcache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// New returns an in-process interfaces.CacheProvider with per-entry TTLs.
// Entries without an explicit TTL fall back to defaultTTL; a zero defaultTTL
// keeps entries until Delete or Clear.
func New(defaultTTL time.Duration) interfaces.CacheProvider {
	return &memoryCache{
		defaultTTL: defaultTTL,
		entries:    map[string]entry{},
		now:        time.Now,
	}
}

type entry struct {
	value     any
	expiresAt time.Time
}

type memoryCache struct {
	mu         sync.RWMutex
	defaultTTL time.Duration
	entries    map[string]entry
	now        func() time.Time
}

func (c *memoryCache) Get(_ context.Context, key string) (any, error) {
	c.mu.RLock()
	item, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !item.expiresAt.IsZero() && c.now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return item.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = item
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = map[string]entry{}
	c.mu.Unlock()
	return nil
}
