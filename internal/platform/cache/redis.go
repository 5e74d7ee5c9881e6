// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements [Store] on a shared Redis instance.
type Redis struct {
	client redis.Cmdable
}

// NewRedis creates a Redis-backed store.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

/*
Get retrieves the raw value stored under key.

Returns:
  - []byte: The cached document
  - error: ErrMiss if the key is absent or expired, or connectivity errors
*/
func (store *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := store.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis_cache_get_failed: %w", err)
	}
	return value, nil
}

/*
Set stores value under key with the given TTL.

Parameters:
  - ctx: context.Context
  - key: string
  - value: []byte
  - ttl: time.Duration (non-positive values store nothing)
*/
func (store *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := store.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_cache_set_failed: %w", err)
	}
	return nil
}
