package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenKeyPrefix = "access_token:"

// RedisAccessTokenCache is the production fast tier. Entries expire via
// redis TTLs; a write for an existing user overwrites the prior entry.
type RedisAccessTokenCache struct {
	client *redis.Client
}

// NewRedisAccessTokenCache connects to redis and verifies the connection.
func NewRedisAccessTokenCache(redisURL string) (*RedisAccessTokenCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAccessTokenCache{client: client}, nil
}

// Client exposes the underlying redis client so it can back the rate limiter.
func (c *RedisAccessTokenCache) Client() *redis.Client {
	return c.client
}

// Close closes the redis connection.
func (c *RedisAccessTokenCache) Close() error {
	return c.client.Close()
}

// Ping verifies the connection, for health checks.
func (c *RedisAccessTokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Put inserts or overwrites the entry for userID with the given TTL.
func (c *RedisAccessTokenCache) Put(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, accessTokenKeyPrefix+userID, token, ttl).Err()
}

// Get returns the live token for userID, or "" when none exists.
func (c *RedisAccessTokenCache) Get(ctx context.Context, userID string) (string, error) {
	token, err := c.client.Get(ctx, accessTokenKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Delete removes the entry for userID.
func (c *RedisAccessTokenCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, accessTokenKeyPrefix+userID).Err()
}
