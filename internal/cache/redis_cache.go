package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Namespace prefixes every key the portal writes, so job details and unread
// counters can share a Redis database with the fan-out stream.
const Namespace = "jobportal:"

// RedisCache stores job details and unread counters as JSON.
type RedisCache struct {
	rdb redis.Cmdable
}

func NewRedisCache(rdb redis.Cmdable) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// GetJSON reports a miss for absent keys. An entry that no longer decodes
// into dst (for example after a model change) is dropped and also a miss.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	k := Namespace + key
	b, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, k).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON skips entries without a positive ttl; job edits and read marks
// invalidate by key, and an entry that never expires would outlive a missed
// invalidation.
func (c *RedisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Namespace+key, b, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = Namespace + k
	}
	return c.rdb.Del(ctx, full...).Err()
}
