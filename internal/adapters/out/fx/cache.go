// Package fx resolves exchange rates for order-total conversion. Rates come
// from a chain of sources: a Redis cache first, then the primary and
// secondary HTTP providers, and finally a stale cache entry kept from the
// last successful fetch. Only when the whole chain is exhausted does a
// conversion fail.
package fx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateCache is the caching dependency of the provider chain. Declared as an
// interface so tests can substitute an in-memory implementation.
type rateCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, rate float64, ttl time.Duration) error
}

// RedisRateCache stores exchange rates in Redis.
type RedisRateCache struct {
	client *redis.Client
}

// NewRedisRateCache creates a rate cache backed by the Redis node at addr.
func NewRedisRateCache(addr string) *RedisRateCache {
	return &RedisRateCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Get reads a cached rate. The second return value reports whether the key
// was present.
func (c *RedisRateCache) Get(ctx context.Context, key string) (float64, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached rate %q: %w", value, err)
	}

	return rate, true, nil
}

// Set writes a rate with the given TTL. A zero TTL means the key does not
// expire; the stale fallback relies on that.
func (c *RedisRateCache) Set(ctx context.Context, key string, rate float64, ttl time.Duration) error {
	return c.client.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}
