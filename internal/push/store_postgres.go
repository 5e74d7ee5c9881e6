// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/harianmuslim/internal/platform/database/schema"
	"github.com/taibuivan/harianmuslim/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on the push_subscriptions table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Upsert(ctx context.Context, subscription Subscription) error {
	table := schema.PushSubscription
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
	`,
		table.Table, table.Endpoint, table.P256dh, table.Auth, table.Kabkota, table.Provinsi, table.UpdatedAt,
		table.Endpoint,
		table.P256dh, table.P256dh, table.Auth, table.Auth,
		table.Kabkota, table.Kabkota, table.Provinsi, table.Provinsi,
		table.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query,
		subscription.Endpoint, subscription.P256dh, subscription.Auth, subscription.Kabkota, subscription.Provinsi,
	)
	return dberr.Wrap(err, "upsert_push_subscription")
}

func (repository *PostgresRepository) Delete(ctx context.Context, endpoint string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PushSubscription.Table, schema.PushSubscription.Endpoint)

	_, err := repository.db.Exec(ctx, query, endpoint)
	return dberr.Wrap(err, "delete_push_subscription")
}

func (repository *PostgresRepository) List(ctx context.Context) ([]Subscription, error) {
	table := schema.PushSubscription
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`,
		table.ColumnList(), table.Table, table.Provinsi, table.Kabkota,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_push_subscriptions")
	}

	subscriptions, err := pgx.CollectRows(rows, scanSubscription)
	if err != nil {
		return nil, dberr.Wrap(err, "scan_push_subscription")
	}

	return subscriptions, nil
}

func (repository *PostgresRepository) MarkSent(ctx context.Context, endpoint, sendKey string, sentAt time.Time) error {
	table := schema.PushSubscription
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		table.Table, table.LastSentKey, table.LastSentAt, table.UpdatedAt, table.Endpoint,
	)

	_, err := repository.db.Exec(ctx, query, endpoint, sendKey, sentAt)
	return dberr.Wrap(err, "mark_push_sent")
}

func scanSubscription(row pgx.CollectableRow) (Subscription, error) {
	var subscription Subscription
	var lastSentKey *string

	err := row.Scan(
		&subscription.Endpoint, &subscription.P256dh, &subscription.Auth,
		&subscription.Kabkota, &subscription.Provinsi, &lastSentKey, &subscription.LastSentAt,
	)
	if lastSentKey != nil {
		subscription.LastSentKey = *lastSentKey
	}

	return subscription, err
}
