package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryRateLimiter is a single-process NotificationRateLimiter for
// tests and development.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int64
	window  time.Duration
	buckets map[string]*bucket
}

type bucket struct {
	count   int64
	resetAt time.Time
}

// NewInMemoryRateLimiter creates a limiter allowing limit deliveries
// per key per window.
func NewInMemoryRateLimiter(limit int64, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

// Allow increments the key's counter, starting a fresh window when the
// previous one has elapsed.
func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return l.limit >= 1, nil
	}
	b.count++
	return b.count <= l.limit, nil
}

var _ NotificationRateLimiter = (*InMemoryRateLimiter)(nil)
