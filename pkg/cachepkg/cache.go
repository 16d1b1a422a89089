// Package cachepkg provides an explicit cache client with per-entry TTL.
//
// Callers decide what to cache and when; there is no implicit cache-aside
// wrapping of method results.
package cachepkg

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss indicates that the key is not present in the cache.
var ErrMiss = errors.New("cache miss")

// Cache is the client interface consumed by the app.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache implements Cache on top of a redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedis returns a RedisCache connected to the given address.
func NewRedis(address string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: address}),
	}
}

// Get returns the cached value or ErrMiss.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}

		return "", err
	}

	return value, nil
}

// Put stores the value under key for the given ttl.
func (c *RedisCache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
