package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts attempts in Redis with a TTL on the window, so the
// limit holds across horizontally scaled instances.
type RedisLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
func NewRedisLimiter(client *redis.Client, window time.Duration, maxAttempts int) *RedisLimiter {
	return &RedisLimiter{
		client:      client,
		window:      window,
		maxAttempts: maxAttempts,
	}
}

// Allow records an attempt for key and reports whether it is permitted.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := counterKey(key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr failed: %w", err)
	}

	// The first attempt in a window starts its expiry clock.
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire failed: %w", err)
		}
	}

	return count <= int64(l.maxAttempts), nil
}

func counterKey(key string) string {
	return "rate_limit:" + key
}
