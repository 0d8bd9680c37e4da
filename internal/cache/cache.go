// Package cache memoizes content-store responses in Redis. Caching is
// optional: a Cache built without an address degrades to a no-op so the
// server keeps working against the store directly.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// Cache wraps a Redis client with JSON get/set helpers.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr. An empty addr yields a disabled cache.
func New(addr, password string) *Cache {
	c := &Cache{ttl: defaultTTL}
	if addr == "" {
		return c
	}
	c.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return c
}

// Enabled reports whether a Redis backend is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads the cached value for key into out. A miss, a disabled cache
// or a decode failure all report false.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if !c.Enabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// SetJSON stores v under key with the default TTL. Failures are ignored;
// the cache is best effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
