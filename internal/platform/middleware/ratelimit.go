// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/ctxutil"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
)

// # Rate Limiting

// WindowCounter counts hits per key inside fixed time windows.
//
// Hit increments the counter for key and returns the count including this hit.
// The count resets once window has elapsed since the first hit of the window.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit rejects a client with 429 once it exceeds max requests in one window.
//
// Clients are keyed by the address [StructuredLogger] stored in the context,
// or by [RealIP] when the limiter runs outside it. A counter failure lets the request through:
// the limiter protects the database from abuse and is not worth an outage.
func RateLimit(counter WindowCounter, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			key := ctxutil.GetClientIP(request.Context())
			if key == "unknown" {
				key = RealIP(request)
			}

			count, err := counter.Hit(request.Context(), key, window)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "rate_limit_counter_failed",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if count > int64(max) {
				respond.PlainError(writer, request, apperr.RateLimited())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # In-Memory Counter

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryWindowCounter keeps fixed windows in process memory.
//
// Counts are per instance, so a fleet of N servers admits up to N times the
// limit. Use [RedisWindowCounter] when that matters.
type MemoryWindowCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryWindowCounter creates a counter and starts a janitor that drops
// expired windows until ctx is cancelled.
func NewMemoryWindowCounter(ctx context.Context) *MemoryWindowCounter {
	counter := &MemoryWindowCounter{
		windows: make(map[string]*window),
		now:     time.Now,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				counter.sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	return counter
}

// Hit implements [WindowCounter].
func (counter *MemoryWindowCounter) Hit(_ context.Context, key string, length time.Duration) (int64, error) {
	now := counter.now()

	counter.mu.Lock()
	defer counter.mu.Unlock()

	current, found := counter.windows[key]
	if !found || !now.Before(current.resetAt) {
		current = &window{resetAt: now.Add(length)}
		counter.windows[key] = current
	}

	current.count++
	return current.count, nil
}

func (counter *MemoryWindowCounter) sweep() {
	now := counter.now()

	counter.mu.Lock()
	defer counter.mu.Unlock()

	for key, current := range counter.windows {
		if !now.Before(current.resetAt) {
			delete(counter.windows, key)
		}
	}
}

// # Redis Counter

// RedisWindowCounter shares fixed windows between instances through Redis.
type RedisWindowCounter struct {
	client redis.Cmdable
	prefix string
}

// NewRedisWindowCounter creates a counter that stores windows under [constants.RedisPrefixRateLimit].
func NewRedisWindowCounter(client redis.Cmdable) *RedisWindowCounter {
	return &RedisWindowCounter{client: client, prefix: constants.RedisPrefixRateLimit}
}

// Hit implements [WindowCounter] with INCR and an expiry set on the first hit.
func (counter *RedisWindowCounter) Hit(ctx context.Context, key string, length time.Duration) (int64, error) {
	redisKey := counter.prefix + key

	pipe := counter.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, length)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("ratelimit: redis hit %q: %w", key, err)
	}

	return incr.Val(), nil
}
