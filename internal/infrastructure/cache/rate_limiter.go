// Package cache holds Redis-backed coordination helpers shared by the
// application services.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationRateLimiter throttles outbound notifications so a
// misbehaving sweep cannot flood a channel. Allow answers whether one
// more delivery may go out for the key within the window.
type NotificationRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisRateLimiter implements NotificationRateLimiter with a counter
// per key and window, suitable for distributed deployments where
// multiple instances share the budget.
type RedisRateLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int64
	window    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRateLimiter creates a Redis-based rate limiter allowing
// limit deliveries per key per window.
func NewRedisRateLimiter(cfg RedisConfig, limit int64, window time.Duration) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimiter{
		client:    client,
		keyPrefix: "notify:ratelimit:",
		limit:     limit,
		window:    window,
	}, nil
}

// NewRedisRateLimiterWithClient creates a rate limiter on an existing
// Redis client, useful for testing or sharing a client.
func NewRedisRateLimiterWithClient(client *redis.Client, limit int64, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:    client,
		keyPrefix: "notify:ratelimit:",
		limit:     limit,
		window:    window,
	}
}

// Allow increments the key's counter, starting the window on first use.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check notification rate limit: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= l.limit, nil
}

var _ NotificationRateLimiter = (*RedisRateLimiter)(nil)

// Close closes the underlying Redis client.
func (l *RedisRateLimiter) Close() error {
	return l.client.Close()
}
