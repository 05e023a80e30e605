package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/marketplace/backend/internal/infrastructure/config"
)

const unreadKeyPrefix = "messaging:unread:"

// RedisUnreadCache implements UnreadCache using Redis. Suitable for
// deployments where multiple instances serve the same users.
type RedisUnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUnreadCache connects to Redis and returns an unread-count cache
func NewRedisUnreadCache(cfg config.RedisConfig, ttl time.Duration) (*RedisUnreadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisUnreadCache{client: client, ttl: ttl}, nil
}

// NewRedisUnreadCacheWithClient wraps an existing client. Useful for
// testing or sharing a client across components.
func NewRedisUnreadCacheWithClient(client *redis.Client, ttl time.Duration) *RedisUnreadCache {
	return &RedisUnreadCache{client: client, ttl: ttl}
}

func unreadKey(userID uuid.UUID) string {
	return unreadKeyPrefix + userID.String()
}

// Get returns the cached count for the user, if present
func (c *RedisUnreadCache) Get(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	count, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read unread count: %w", err)
	}
	return count, true, nil
}

// Set stores the count for the user with the configured TTL
func (c *RedisUnreadCache) Set(ctx context.Context, userID uuid.UUID, count int64) error {
	if err := c.client.Set(ctx, unreadKey(userID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache unread count: %w", err)
	}
	return nil
}

// Invalidate drops cached counts for the given users
func (c *RedisUnreadCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = unreadKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate unread counts: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisUnreadCache) Close() error {
	return c.client.Close()
}

var _ UnreadCache = (*RedisUnreadCache)(nil)
