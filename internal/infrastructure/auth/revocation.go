package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore invalidates share tokens before they expire, e.g.
// when a budget is withdrawn after its link went out.
type RevocationStore interface {
	// Revoke marks a token's JTI as revoked. ttl should be the
	// remaining time until the token expires on its own.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks whether a token's JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationStore implements RevocationStore using Redis.
type RedisRevocationStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRevocationStore creates a revocation store on an existing
// Redis client.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client:    client,
		keyPrefix: "share:revoked:",
	}
}

func (r *RedisRevocationStore) key(jti string) string {
	return r.keyPrefix + jti
}

// Revoke marks the JTI revoked for the remaining token lifetime.
func (r *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke share token: %w", err)
	}
	return nil
}

// IsRevoked checks whether the JTI is revoked.
func (r *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check share token revocation: %w", err)
	}
	return exists > 0, nil
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// InMemoryRevocationStore is a single-process implementation for tests
// and development.
type InMemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewInMemoryRevocationStore creates an empty in-memory store.
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	return &InMemoryRevocationStore{revoked: make(map[string]time.Time)}
}

// Revoke marks the JTI revoked until its expiry passes.
func (r *InMemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks whether the JTI is revoked, dropping expired
// entries as it goes.
func (r *InMemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiry, ok := r.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(r.revoked, jti)
		return false, nil
	}
	return true, nil
}

var _ RevocationStore = (*InMemoryRevocationStore)(nil)
