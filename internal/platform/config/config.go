// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present so development setups need no exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, push job) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Harian Muslim API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// SiteOrigin is the public origin of the web front end (e.g. https://harianmuslim.id).
	// It restricts CORS on the push endpoints and anchors sitemap URLs.
	SiteOrigin string `env:"SITE_ORIGIN"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath overrides the SQL migrations compiled into the binary with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis). Optional: process memory is used when empty.
	RedisURL string `env:"REDIS_URL"`

	// Content snapshots produced by cmd/snapshot
	SnapshotDir string `env:"SNAPSHOT_DIR" envDefault:"./data/snapshots"`

	// Third-party APIs
	EquranBaseURL    string        `env:"EQURAN_BASE_URL"    envDefault:"https://equran.id/api"`
	EquranV2BaseURL  string        `env:"EQURAN_V2_BASE_URL" envDefault:"https://equran.id/api/v2"`
	QuranComBaseURL  string        `env:"QURAN_COM_BASE_URL" envDefault:"https://api.quran.com/api/v4"`
	NominatimBaseURL string        `env:"NOMINATIM_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT"   envDefault:"15s"`
	UpstreamRPS      float64       `env:"UPSTREAM_RPS"       envDefault:"10"`
	NominatimRPS     float64       `env:"NOMINATIM_RPS"      envDefault:"1"`

	// Web Push (VAPID)
	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string `env:"VAPID_SUBJECT" envDefault:"mailto:admin@example.com"`

	// Push delivery job
	PushCronSecret string        `env:"PUSH_CRON_SECRET"`
	PushSchedule   string        `env:"PUSH_SCHEDULE"`
	PushSendWindow time.Duration `env:"PUSH_SEND_WINDOW" envDefault:"5m"`

	// Fixed-window rate limiting on the public push endpoints
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"    envDefault:"30"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// Caches
	LocationCacheTTL time.Duration `env:"LOCATION_CACHE_TTL" envDefault:"12h"`
	ScheduleCacheTTL time.Duration `env:"SCHEDULE_CACHE_TTL" envDefault:"6h"`
	ContentCacheTTL  time.Duration `env:"CONTENT_CACHE_TTL"  envDefault:"24h"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment onto a [Config] without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.RateLimitMax < 1 {
		return nil, fmt.Errorf("config: RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimitMax)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PushEnabled reports whether both VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}
