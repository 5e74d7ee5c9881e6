// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"time"
)

// Repository persists push subscriptions.
type Repository interface {
	// Upsert inserts the subscription or replaces the row with the same endpoint.
	Upsert(ctx context.Context, subscription Subscription) error

	// Delete removes the subscription with the given endpoint. Unknown endpoints are not an error.
	Delete(ctx context.Context, endpoint string) error

	// List returns every stored subscription.
	List(ctx context.Context) ([]Subscription, error)

	// MarkSent records the dedupe key of a delivered notification.
	MarkSent(ctx context.Context, endpoint, sendKey string, sentAt time.Time) error
}
