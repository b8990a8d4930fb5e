package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "attempts:"

// RedisManager keeps attempt counters in Redis so that every instance of
// the service shares them
type RedisManager struct {
	client redis.Cmdable
}

// NewRedisManager creates a new Redis-based attempt tracker
func NewRedisManager(addr, password string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{client: client}, nil
}

// NewRedisManagerWithClient wraps an existing client.
func NewRedisManagerWithClient(client redis.Cmdable) *RedisManager {
	return &RedisManager{client: client}
}

// Attempts gets the count for a key
func (m *RedisManager) Attempts(ctx context.Context, key string) (int, time.Duration, error) {
	k := keyPrefix + key

	pipe := m.client.Pipeline()
	get := pipe.Get(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("failed to read attempts: %w", err)
	}

	count, err := get.Int()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse attempts: %w", err)
	}

	left := ttl.Val()
	if left < 0 {
		left = 0
	}
	return count, left, nil
}

// Record increments the count for a key. The expiry is set only by the
// first increment, so the window does not slide.
func (m *RedisManager) Record(ctx context.Context, key string, window time.Duration) (int, error) {
	k := keyPrefix + key

	pipe := m.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}
	return int(incr.Val()), nil
}

// Reset clears the count for a key
func (m *RedisManager) Reset(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	if c, ok := m.client.(*redis.Client); ok {
		return c.Close()
	}
	return nil
}
