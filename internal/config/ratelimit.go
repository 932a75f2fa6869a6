package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig holds configuration for payment-attempt throttling
type RateLimitConfig struct {
	Window      time.Duration
	MaxAttempts int
	RedisAddr   string
}

// LoadRateLimitConfig loads rate limit configuration from environment
// variables. When REDIS_ADDR is set the limiter counts in Redis so the
// window holds across instances; otherwise it counts in process memory.
func LoadRateLimitConfig() RateLimitConfig {
	window := 15 * time.Minute
	if v := os.Getenv("RATE_LIMIT_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			window = time.Duration(ms) * time.Millisecond
		}
	}

	maxAttempts := 5
	if v := os.Getenv("RATE_LIMIT_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxAttempts = n
		}
	}

	return RateLimitConfig{
		Window:      window,
		MaxAttempts: maxAttempts,
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}
}
