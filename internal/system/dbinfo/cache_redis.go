// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package dbinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
	"github.com/datapipeline/pro-api/internal/platform/constants"
)

// # Redis Cache

// RedisCache implements the [Cache] contract with JSON values under the
// dbinfo key prefix.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed introspection cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

/*
GetJSON loads and unmarshals a cached value into target.

Description: Returns apperr.NotFound on a cache miss so callers fall through
to the live query.

Parameters:
  - context: context.Context
  - key: string (unprefixed)
  - target: interface{} (pointer to the destination)

Returns:
  - error: apperr.NotFound on miss, or connectivity/decoding errors
*/
func (cache *RedisCache) GetJSON(context context.Context, key string, target interface{}) error {
	payload, err := cache.client.Get(context, constants.RedisPrefixDBInfo+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("Cache entry")
		}
		return fmt.Errorf("redis_dbinfo_cache_get_failed: %w", err)
	}

	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("redis_dbinfo_cache_decode_failed: %w", err)
	}

	return nil
}

/*
SetJSON marshals and stores a value under key for the given TTL.

Parameters:
  - context: context.Context
  - key: string (unprefixed)
  - value: interface{}
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (cache *RedisCache) SetJSON(context context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_dbinfo_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisPrefixDBInfo+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_dbinfo_cache_set_failed: %w", err)
	}

	return nil
}
