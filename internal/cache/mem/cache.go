package mem

import (
	"context"
	"sync"
	"time"

	"taxpoint/internal/port"
)

type entry struct {
	loc       *port.Location
	expiresAt time.Time
}

// Cache is an in-process geocode cache with per-entry TTL expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) Get(_ context.Context, key string) (*port.Location, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.loc, true, nil
}

func (c *Cache) Set(_ context.Context, key string, loc *port.Location, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = entry{loc: loc, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
