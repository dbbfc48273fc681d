package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "devices:status"

// Cache stores the latest status snapshot in Redis so the status endpoint
// can serve it without waiting for the next simulator tick.
type Cache struct {
	client *redis.Client
}

// New creates a Redis-backed cache
func New(addr string) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// SetSnapshot stores the latest status_update payload. The TTL guards
// against serving stale data after the simulator stops.
func (c *Cache) SetSnapshot(ctx context.Context, snapshot []byte) error {
	return c.client.Set(ctx, snapshotKey, snapshot, time.Minute).Err()
}

// Snapshot returns the latest payload, or nil when none is cached
func (c *Cache) Snapshot(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close closes the Redis client
func (c *Cache) Close() error {
	return c.client.Close()
}
