package cache

import (
	"context"
	"time"
)

// CappedCache limits the time-to-live of every entry written through it.
// It lets a deployment shorten the default TTLs without touching callers.
type CappedCache struct {
	Cache
	max time.Duration
}

// NewCappedCache wraps inner so that no entry outlives max.
// A non-positive max returns a wrapper that passes TTLs through unchanged.
func NewCappedCache(inner Cache, max time.Duration) *CappedCache {
	return &CappedCache{Cache: inner, max: max}
}

// Set stores data with the smaller of ttl and the cap.
// A zero ttl (never expires) is replaced by the cap.
func (c *CappedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.max > 0 && (ttl <= 0 || ttl > c.max) {
		ttl = c.max
	}
	return c.Cache.Set(ctx, key, data, ttl)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *CappedCache) Clear(ctx context.Context) error {
	_, err := Clear(ctx, c.Cache)
	return err
}

var _ Clearer = (*CappedCache)(nil)
