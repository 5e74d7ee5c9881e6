// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, cookie names, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking TTLs for the fixed-window limiter.
  - Preferences: Cookie names for browser-local state.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "harianmuslim-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// The push cron endpoint runs the whole delivery job inside one request.
	DefaultWriteTimeout = 120 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for ordinary API requests.
	GlobalRequestTimeout = 30 * time.Second

	// PushJobTimeout bounds a single run of the push delivery job.
	PushJobTimeout = 110 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often expired windows are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RedisPrefixRateLimit namespaces fixed-window counters in Redis.
	RedisPrefixRateLimit = "ratelimit:"
)

// # Push Delivery

const (
	// MaxEndpointLength caps the push endpoint URL accepted from browsers.
	MaxEndpointLength = 2048

	// PushTTLSeconds is how long the push service keeps an undelivered message.
	PushTTLSeconds = 60 * 60

	// PushClickURL is opened when the user taps a prayer notification.
	PushClickURL = "/sholat"
)

// # Preferences (browser-local state)

const (
	CookieLocation = "hm_location"
	CookieLastRead = "hm_last_read"
	CookieTheme    = "hm_theme"

	// PreferenceMaxAge keeps preference cookies for one year.
	PreferenceMaxAge = 365 * 24 * 60 * 60
)

// # Default Location

const (
	DefaultKabkota  = "Kota Jakarta"
	DefaultProvinsi = "DKI Jakarta"
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderOrigin         = "Origin"
	HeaderAuthorization  = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldOK      = "ok"
	FieldSent    = "sent"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldVersion = "version"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	CachePrefixSchedule = "prayer:schedule:"
	CachePrefixQuran    = "quran:"
	CachePrefixDoa      = "doa:"
)
