package lru

import "time"

// SetClock replaces the time source.
func (c *Cache) SetClock(now func() time.Time) { c.now = now }
