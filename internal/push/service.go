// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/validate"
)

// Service manages the subscription lifecycle.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new push [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Subscribe stores or refreshes a browser subscription.

Parameters:
  - ctx: context.Context
  - input: SubscribeRequest

Returns:
  - error: Validation (400) or storage failure (500)
*/
func (service *Service) Subscribe(ctx context.Context, input SubscribeRequest) error {
	subscription := Subscription{
		Endpoint: strings.TrimSpace(input.Subscription.Endpoint),
		P256dh:   strings.TrimSpace(input.Subscription.Keys.P256dh),
		Auth:     strings.TrimSpace(input.Subscription.Keys.Auth),
		Kabkota:  strings.TrimSpace(input.Kabkota),
		Provinsi: strings.TrimSpace(input.Provinsi),
	}

	// 1. Every field is mandatory
	err := new(validate.Validator).
		Required("subscription.endpoint", subscription.Endpoint).
		Required("subscription.keys.p256dh", subscription.P256dh).
		Required("subscription.keys.auth", subscription.Auth).
		Required("kabkota", subscription.Kabkota).
		Required("provinsi", subscription.Provinsi).
		ErrWithMessage("Missing subscription fields")
	if err != nil {
		return err
	}

	// 2. Endpoint must be a bounded https URL
	err = new(validate.Validator).
		MaxLen("subscription.endpoint", subscription.Endpoint, constants.MaxEndpointLength).
		AbsoluteURL("subscription.endpoint", subscription.Endpoint).
		Custom("subscription.endpoint", !strings.HasPrefix(subscription.Endpoint, "https://"), "Must use https").
		ErrWithMessage("Invalid endpoint")
	if err != nil {
		return err
	}

	// 3. Persist
	if err := service.repository.Upsert(ctx, subscription); err != nil {
		return apperr.InternalMsg("Failed to store subscription", err)
	}

	service.logger.InfoContext(ctx, "push_subscribed",
		slog.String("kabkota", subscription.Kabkota),
		slog.String("provinsi", subscription.Provinsi),
	)
	return nil
}

// Unsubscribe removes a subscription by endpoint.
func (service *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	err := new(validate.Validator).
		Required("endpoint", endpoint).
		MaxLen("endpoint", endpoint, constants.MaxEndpointLength).
		ErrWithMessage("Invalid endpoint")
	if err != nil {
		return err
	}

	if err := service.repository.Delete(ctx, endpoint); err != nil {
		return apperr.InternalMsg("Failed to delete subscription", err)
	}

	service.logger.InfoContext(ctx, "push_unsubscribed")
	return nil
}
