// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a process-local [Store]. Expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

// Get implements [Store].
func (memory *Memory) Get(_ context.Context, key string) ([]byte, error) {
	memory.mu.RLock()
	found, ok := memory.entries[key]
	memory.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}

	if !memory.now().Before(found.expiresAt) {
		memory.mu.Lock()
		delete(memory.entries, key)
		memory.mu.Unlock()
		return nil, ErrMiss
	}

	return found.value, nil
}

// Set implements [Store]. A non-positive ttl stores nothing.
func (memory *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	copied := make([]byte, len(value))
	copy(copied, value)

	memory.mu.Lock()
	memory.entries[key] = entry{value: copied, expiresAt: memory.now().Add(ttl)}
	memory.mu.Unlock()

	return nil
}
