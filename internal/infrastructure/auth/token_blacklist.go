package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bahikhata/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const (
	blacklistKeyPrefix = "token:blacklist:jti:"
	userRevokedPrefix  = "token:blacklist:user:"
)

// TokenBlacklist revokes issued tokens before their natural expiry.
type TokenBlacklist interface {
	// Blacklist marks a token (by its JTI) as revoked for the given TTL
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
	// IsBlacklisted reports whether the token has been revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// RevokeAllForUser invalidates every token issued to the user before now
	RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error
	// IsRevokedForUser reports whether tokens issued at issuedAt are invalidated
	IsRevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist backed by Redis with TTL-based
// expiry, so revoked entries disappear once the token itself would have expired.
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// NewRedisTokenBlacklist creates a blacklist connected per the Redis config
func NewRedisTokenBlacklist(cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisTokenBlacklist{client: client}, nil
}

// NewRedisTokenBlacklistWithClient wraps an existing Redis client
func NewRedisTokenBlacklistWithClient(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func (b *RedisTokenBlacklist) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return fmt.Errorf("jti is required")
	}
	if ttl <= 0 {
		// Token already expired, nothing to revoke.
		return nil
	}
	return b.client.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err()
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist lookup failed: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	now := time.Now().Unix()
	return b.client.Set(ctx, userRevokedPrefix+userID, now, ttl).Err()
}

func (b *RedisTokenBlacklist) IsRevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	if userID == "" {
		return false, nil
	}
	val, err := b.client.Get(ctx, userRevokedPrefix+userID).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user revocation lookup failed: %w", err)
	}
	return issuedAt.Unix() <= val, nil
}

// Close releases the underlying Redis connection
func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

// InMemoryTokenBlacklist is a TokenBlacklist for tests and single-node
// development setups. Expired entries are dropped lazily on lookup.
type InMemoryTokenBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	revoked map[string]time.Time
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		entries: make(map[string]time.Time),
		revoked: make(map[string]time.Time),
	}
}

func (b *InMemoryTokenBlacklist) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return fmt.Errorf("jti is required")
	}
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	b.mu.RLock()
	expiry, ok := b.entries[jti]
	b.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		b.mu.Lock()
		delete(b.entries, jti)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (b *InMemoryTokenBlacklist) RevokeAllForUser(ctx context.Context, userID string, ttl time.Duration) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[userID] = time.Now()
	return nil
}

func (b *InMemoryTokenBlacklist) IsRevokedForUser(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	revokedAt, ok := b.revoked[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(revokedAt), nil
}
