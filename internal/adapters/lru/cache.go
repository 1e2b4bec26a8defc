// Package lru is the in-process geocode cache used when no Valkey server is
// configured.
package lru

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samirrijal/siara/internal/core/ports"
)

type entry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// Cache implements ports.CacheService on a bounded LRU.
type Cache struct {
	items *lru.Cache[string, entry]
	now   func() time.Time
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	items, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("lru: %w", err)
	}
	return &Cache{items: items, now: time.Now}, nil
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.items.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.items.Remove(key)
		return nil, ports.ErrCacheMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttlSeconds > 0 {
		e.expires = c.now().Add(time.Duration(ttlSeconds) * time.Second)
	}
	c.items.Add(key, e)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.items.Remove(key)
	return nil
}
