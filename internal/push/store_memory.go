// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a process-local [Repository] for development and tests.
type MemoryRepository struct {
	mu   sync.Mutex
	rows map[string]Subscription
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Subscription)}
}

func (repository *MemoryRepository) Upsert(_ context.Context, subscription Subscription) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if existing, ok := repository.rows[subscription.Endpoint]; ok {
		subscription.LastSentKey = existing.LastSentKey
		subscription.LastSentAt = existing.LastSentAt
	}
	repository.rows[subscription.Endpoint] = subscription
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, endpoint string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.rows, endpoint)
	return nil
}

func (repository *MemoryRepository) List(context.Context) ([]Subscription, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	subscriptions := make([]Subscription, 0, len(repository.rows))
	for _, subscription := range repository.rows {
		subscriptions = append(subscriptions, subscription)
	}

	sort.Slice(subscriptions, func(i, j int) bool {
		return subscriptions[i].Endpoint < subscriptions[j].Endpoint
	})
	return subscriptions, nil
}

func (repository *MemoryRepository) MarkSent(_ context.Context, endpoint, sendKey string, sentAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	subscription, ok := repository.rows[endpoint]
	if !ok {
		return nil
	}

	subscription.LastSentKey = sendKey
	subscription.LastSentAt = &sentAt
	repository.rows[endpoint] = subscription
	return nil
}
