// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache stores short-lived JSON documents fetched from third-party APIs.

Two backends implement [Store]: [Memory] for single-instance deployments and
tests, and [Redis] when several instances should share one copy. Values are
opaque bytes; [GetJSON] and [SetJSON] handle the encoding.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by [Store.Get] when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a TTL key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// GetJSON reads key and decodes it into target. It returns [ErrMiss] on a miss.
func GetJSON(ctx context.Context, store Store, key string, target any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("cache: decode %q: %w", key, err)
	}

	return nil
}

// SetJSON encodes value and stores it under key for ttl.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	return store.Set(ctx, key, raw, ttl)
}
