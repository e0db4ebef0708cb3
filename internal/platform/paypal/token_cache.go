package paypal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores access tokens until shortly before they expire.
type TokenCache interface {
	Get(ctx context.Context, key string) (token string, ok bool, err error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}

// cacheKey never embeds the secret itself.
func cacheKey(clientID, clientSecret string) string {
	sum := sha256.Sum256([]byte(clientID + ":" + clientSecret))
	return "paypal:access_token:" + hex.EncodeToString(sum[:])
}

type RedisTokenCache struct {
	rdb redis.Cmdable
}

// NewTokenCache returns a Redis backed cache, or nil when Redis is not configured.
func NewTokenCache(rdb *redis.Client) TokenCache {
	if rdb == nil {
		return nil
	}
	return &RedisTokenCache{rdb: rdb}
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	tok, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return tok, true, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, token, ttl).Err()
}
