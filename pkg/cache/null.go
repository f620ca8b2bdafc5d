package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache runs and is the fallback
// when a configured backend cannot be opened: every build simply renders
// fresh, which is always correct for a deterministic pipeline.
type NullCache struct{}

// NewNullCache creates a cache that always misses.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
