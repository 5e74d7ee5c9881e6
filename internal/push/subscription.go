// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package push stores browser push subscriptions and delivers a notification to
each subscriber when a prayer time arrives in their regency.

A delivery job runs periodically (triggered over HTTP or by the in-process
scheduler). For each subscriber it sends at most one message per prayer per
day, enforced by the `date|prayerKey` dedupe key persisted on the row.
Subscriptions the push service reports as gone are deleted.
*/
package push

import (
	"time"

	"github.com/taibuivan/harianmuslim/internal/prayer"
)

// # Domain Types

// Subscription is one browser endpoint registered for prayer notifications.
type Subscription struct {
	Endpoint    string     `json:"endpoint"`
	P256dh      string     `json:"p256dh"`
	Auth        string     `json:"auth"`
	Kabkota     string     `json:"kabkota"`
	Provinsi    string     `json:"provinsi"`
	LastSentKey string     `json:"last_sent_key,omitempty"`
	LastSentAt  *time.Time `json:"last_sent_at,omitempty"`
}

// Location returns the regency the subscriber follows.
func (subscription Subscription) Location() prayer.Location {
	return prayer.Location{Kabkota: subscription.Kabkota, Provinsi: subscription.Provinsi}
}

// Keys are the client encryption keys issued by the browser.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// BrowserSubscription mirrors the PushSubscription JSON produced by browsers.
type BrowserSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// SubscribeRequest is the body accepted by the subscribe endpoint.
type SubscribeRequest struct {
	Subscription BrowserSubscription `json:"subscription"`
	Kabkota      string              `json:"kabkota"`
	Provinsi     string              `json:"provinsi"`
}

// UnsubscribeRequest is the body accepted by the unsubscribe endpoint.
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Message is the JSON payload read by the service worker.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// # Dedupe

// SendKey identifies one prayer on one WIB calendar day.
func SendKey(dateISO string, key prayer.Key) string {
	return dateISO + "|" + string(key)
}

// ShouldSend reports whether a notification for sendKey is due at now.
//
// A prayer is due from its exact time until window has elapsed, both ends
// inclusive, and only when it has not been sent under the same key before.
func ShouldSend(now, prayerTime time.Time, lastSentKey, sendKey string, window time.Duration) bool {
	if prayerTime.IsZero() || lastSentKey == sendKey {
		return false
	}

	elapsed := now.Sub(prayerTime)
	return elapsed >= 0 && elapsed <= window
}
