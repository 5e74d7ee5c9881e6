// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package push

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/harianmuslim/internal/platform/apperr"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	requestutil "github.com/taibuivan/harianmuslim/internal/platform/request"
	"github.com/taibuivan/harianmuslim/internal/platform/respond"
)

// Guards are the middlewares protecting the push endpoints. A nil guard lets every request through.
type Guards struct {
	// Origin restricts the browser-facing endpoints to the site origin.
	Origin func(http.Handler) http.Handler

	// RateLimit throttles the browser-facing endpoints per client IP.
	RateLimit func(http.Handler) http.Handler

	// Cron authenticates the delivery trigger.
	Cron func(http.Handler) http.Handler
}

// # Handler Implementation

// Handler implements the HTTP layer for push subscriptions and delivery.
//
// These endpoints are called by the service worker and by schedulers, so
// failures are plain text and successes are `{"ok": true}`.
type Handler struct {
	service *Service
	job     *Job
	vapid   VAPID
	guards  Guards
	now     func() time.Time
}

// NewHandler constructs a new push [Handler].
func NewHandler(service *Service, job *Job, vapid VAPID, guards Guards) *Handler {
	return &Handler{service: service, job: job, vapid: vapid, guards: guards, now: time.Now}
}

// Routes returns a [chi.Router] configured with the push endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// 1. Browser-facing endpoints
	router.Group(func(browser chi.Router) {
		use(browser, handler.guards.Origin)
		use(browser, handler.guards.RateLimit)

		browser.Post("/subscribe", handler.subscribe)
		browser.Post("/unsubscribe", handler.unsubscribe)
		browser.Options("/subscribe", preflight)
		browser.Options("/unsubscribe", preflight)
	})

	router.Get("/vapid-public-key", handler.publicKey)

	// 2. Delivery trigger
	router.Group(func(trigger chi.Router) {
		use(trigger, handler.guards.Cron)

		trigger.Get("/cron", handler.runJob)
		trigger.Post("/cron", handler.runJob)
	})

	return router
}

func use(router chi.Router, middleware func(http.Handler) http.Handler) {
	if middleware != nil {
		router.Use(middleware)
	}
}

// preflight answers OPTIONS when no origin guard handled it.
func preflight(writer http.ResponseWriter, _ *http.Request) {
	respond.NoContent(writer)
}

// # Handlers

// subscribe handles POST /subscribe.
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	var input SubscribeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	if err := handler.service.Subscribe(request.Context(), input); err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{constants.FieldOK: true})
}

// unsubscribe handles POST /unsubscribe.
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	var input UnsubscribeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	if err := handler.service.Unsubscribe(request.Context(), input.Endpoint); err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{constants.FieldOK: true})
}

// publicKey handles GET /vapid-public-key so the browser can subscribe.
func (handler *Handler) publicKey(writer http.ResponseWriter, request *http.Request) {
	if !handler.vapid.Configured() {
		respond.PlainError(writer, request, apperr.ServiceUnavailable("Push notifications are not configured"))
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{"publicKey": handler.vapid.PublicKey})
}

// runJob handles GET|POST /cron.
func (handler *Handler) runJob(writer http.ResponseWriter, request *http.Request) {
	if !handler.vapid.Configured() {
		respond.PlainError(writer, request, apperr.InternalMsg("Missing VAPID keys", nil))
		return
	}

	sent, err := handler.job.Run(request.Context(), handler.now())
	if err != nil {
		respond.PlainError(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		constants.FieldOK:   true,
		constants.FieldSent: sent,
	})
}
