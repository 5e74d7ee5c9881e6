// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns queried by the postgres stores.
package schema

import "strings"

// PushSubscriptionTable represents the 'push_subscriptions' table
type PushSubscriptionTable struct {
	Table       string
	Endpoint    string
	P256dh      string
	Auth        string
	Kabkota     string
	Provinsi    string
	LastSentKey string
	LastSentAt  string
	CreatedAt   string
	UpdatedAt   string
}

// PushSubscription is the schema definition for push_subscriptions
var PushSubscription = PushSubscriptionTable{
	Table:       "push_subscriptions",
	Endpoint:    "endpoint",
	P256dh:      "p256dh",
	Auth:        "auth",
	Kabkota:     "kabkota",
	Provinsi:    "provinsi",
	LastSentKey: "last_sent_key",
	LastSentAt:  "last_sent_at",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns the columns read into a subscription, in scan order
func (t PushSubscriptionTable) Columns() []string {
	return []string{
		t.Endpoint, t.P256dh, t.Auth, t.Kabkota, t.Provinsi, t.LastSentKey, t.LastSentAt,
	}
}

// ColumnList returns [PushSubscriptionTable.Columns] joined for a SELECT clause
func (t PushSubscriptionTable) ColumnList() string {
	return strings.Join(t.Columns(), ", ")
}
