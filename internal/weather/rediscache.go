// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SkyCast Contributors

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/skycastlabs/skycast/internal/result"
)

// redisCmdable is the subset of the redis client used by RedisCache.
// *redis.Client satisfies it, and tests can substitute a fake.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache is a distributed ResultCache backed by Redis. Envelopes are
// round-tripped through JSON, so a hit replays an equivalent value rather
// than the original object.
type RedisCache struct {
	client redisCmdable
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache with the given TTL. A non-positive
// TTL falls back to DefaultRedisTTL.
func NewRedisCache(client redisCmdable, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, oops.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached envelope for a city.
func (c *RedisCache) Get(ctx context.Context, city string) (*result.Result[Response], bool, error) {
	key := redisKeyPrefix + strings.ToLower(city)

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, oops.Code("CACHE_GET_FAILED").
			With("key", key).
			Wrap(err)
	}

	var res result.Result[Response]
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, false, oops.Code("CACHE_DECODE_FAILED").
			With("key", key).
			Wrap(err)
	}
	return &res, true, nil
}

// Set stores an envelope for a city.
func (c *RedisCache) Set(ctx context.Context, city string, res *result.Result[Response]) error {
	key := redisKeyPrefix + strings.ToLower(city)

	data, err := json.Marshal(res)
	if err != nil {
		return oops.Code("CACHE_ENCODE_FAILED").
			With("key", key).
			Wrap(err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return oops.Code("CACHE_SET_FAILED").
			With("key", key).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ ResultCache = (*RedisCache)(nil)
