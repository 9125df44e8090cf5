// Package cache is a best-effort response cache in Redis. Identical query
// bodies within the TTL get the stored response back; any cache failure
// degrades to a live query and is logged, never surfaced.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "trends:query:"

// Cache wraps one Redis client. A nil *Cache is a valid no-op cache, so
// callers never branch on whether caching is configured.
type Cache struct {
	rdb *redis.Client
	log *zap.Logger
	ttl time.Duration
}

// New connects to Redis at addr. An empty addr disables caching.
func New(addr string, ttl time.Duration, log *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		log: log,
		ttl: ttl,
	}
}

// Key derives the cache key for a raw request body. The body is hashed
// as received: two requests differing only in key order cache separately,
// which wastes a little space but never serves the wrong response.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the stored response for key, or ok=false on miss or error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

// Set stores a response under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, val []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
