package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds the number of payment-creation attempts per client key
// within a sliding window. Implementations are swappable: the in-memory
// limiter covers a single instance, the Redis limiter a fleet.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type entry struct {
	count        int
	firstAttempt time.Time
}

// MemoryLimiter keeps per-key counters in process memory. Counters reset
// when the window elapses and vanish on restart; this is best-effort
// throttling, not a security guarantee.
type MemoryLimiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter with the given window and
// attempt ceiling.
func NewMemoryLimiter(window time.Duration, maxAttempts int) *MemoryLimiter {
	return &MemoryLimiter{
		entries:     make(map[string]*entry),
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Allow records an attempt for key and reports whether it is permitted.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.firstAttempt) > l.window {
		l.entries[key] = &entry{count: 1, firstAttempt: now}
		return true, nil
	}

	if e.count >= l.maxAttempts {
		return false, nil
	}

	e.count++
	return true, nil
}
