// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/taibuivan/harianmuslim/internal/platform/constants"
)

// maxErrorBody bounds how much of a rejection body is kept for logging.
const maxErrorBody = 512

// Sender delivers one message to one subscription.
type Sender interface {
	Send(ctx context.Context, subscription Subscription, message Message) error
}

// DeliveryError is returned when the push service answers with a non-2xx status.
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push: delivery rejected with status %d", e.StatusCode)
}

// IsGone reports whether err means the subscription no longer exists.
func IsGone(err error) bool {
	var deliveryError *DeliveryError
	if !errors.As(err, &deliveryError) {
		return false
	}
	return deliveryError.StatusCode == http.StatusNotFound || deliveryError.StatusCode == http.StatusGone
}

// VAPID holds the application server identity.
type VAPID struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

// Configured reports whether both keys are present.
func (vapid VAPID) Configured() bool {
	return vapid.PublicKey != "" && vapid.PrivateKey != ""
}

// WebPushSender sends encrypted messages with VAPID authentication.
type WebPushSender struct {
	vapid      VAPID
	httpClient *http.Client
}

/*
NewWebPushSender creates a sender. A nil client uses [http.DefaultClient].

The subject may be given as "mailto:ops@example.com" or as a bare address.
webpush-go adds the mailto: scheme itself to anything that is not an https
URL, so a leading mailto: is stripped here to keep the JWT sub claim valid.
*/
func NewWebPushSender(vapid VAPID, httpClient *http.Client) *WebPushSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	vapid.Subject = subscriberForWebPush(vapid.Subject)
	return &WebPushSender{vapid: vapid, httpClient: httpClient}
}

func subscriberForWebPush(subject string) string {
	subject = strings.TrimSpace(subject)
	if len(subject) >= len("mailto:") && strings.EqualFold(subject[:len("mailto:")], "mailto:") {
		return subject[len("mailto:"):]
	}
	return subject
}

// Send encrypts the message for the subscription and posts it to the push service.
func (sender *WebPushSender) Send(ctx context.Context, subscription Subscription, message Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("push: failed to encode message: %w", err)
	}

	response, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: subscription.Endpoint,
		Keys: webpush.Keys{
			P256dh: subscription.P256dh,
			Auth:   subscription.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      sender.httpClient,
		Subscriber:      sender.vapid.Subject,
		VAPIDPublicKey:  sender.vapid.PublicKey,
		VAPIDPrivateKey: sender.vapid.PrivateKey,
		TTL:             constants.PushTTLSeconds,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return fmt.Errorf("push: failed to send notification: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return &DeliveryError{StatusCode: response.StatusCode, Body: string(body)}
	}

	_, _ = io.Copy(io.Discard, response.Body)
	return nil
}
