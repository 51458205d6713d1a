package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

const keyPrefix = "storefront:user:"

// UserCache remembers the user behind a token so the same token is not
// resolved twice.
type UserCache interface {
	Get(ctx context.Context, token string) (domain.CurrentUser, bool, error)
	Set(ctx context.Context, token string, user domain.CurrentUser, ttl time.Duration) error
}

var _ UserCache = (*RedisCache)(nil)

// RedisCache stores users in Redis under the SHA-256 of their token.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a Redis-backed user cache.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get looks up the user cached for token.
func (c *RedisCache) Get(ctx context.Context, token string) (domain.CurrentUser, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CurrentUser{}, false, nil
		}
		return domain.CurrentUser{}, false, fmt.Errorf("get cached user: %w", err)
	}

	var user domain.CurrentUser
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.CurrentUser{}, false, fmt.Errorf("unmarshal cached user: %w", err)
	}
	return user, true, nil
}

// Set caches user for token.
func (c *RedisCache) Set(ctx context.Context, token string, user domain.CurrentUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("set cached user: %w", err)
	}
	return nil
}
