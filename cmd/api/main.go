// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Harian Muslim HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured, otherwise use process memory.
//  5. Run database migrations (idempotent).
//  6. Load content snapshots.
//  7. Wire upstream clients, services and HTTP handlers.
//  8. Start the optional push scheduler and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/harianmuslim/internal/api"
	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/content/snapshot"
	"github.com/taibuivan/harianmuslim/internal/content/wisdom"
	"github.com/taibuivan/harianmuslim/internal/location"
	"github.com/taibuivan/harianmuslim/internal/platform/cache"
	"github.com/taibuivan/harianmuslim/internal/platform/config"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/middleware"
	"github.com/taibuivan/harianmuslim/internal/platform/migration"
	pgstore "github.com/taibuivan/harianmuslim/internal/platform/postgres"
	redisstore "github.com/taibuivan/harianmuslim/internal/platform/redis"
	"github.com/taibuivan/harianmuslim/internal/platform/sec"
	"github.com/taibuivan/harianmuslim/internal/platform/upstream"
	"github.com/taibuivan/harianmuslim/internal/prayer"
	"github.com/taibuivan/harianmuslim/internal/preference"
	"github.com/taibuivan/harianmuslim/internal/push"
	"github.com/taibuivan/harianmuslim/internal/site"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "harianmuslim"))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "harianmuslim"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("push_enabled", cfg.PushEnabled()),
	)

	// Lives until shutdown; background janitors stop with it.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	checks := []api.DependencyCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
	}

	// ── 4. Cache and rate-limit counters ──────────────────────────────────
	var (
		store   cache.Store
		counter middleware.WindowCounter
	)

	if cfg.RedisURL != "" {
		var rdb *goredis.Client
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		store = cache.NewRedis(rdb)
		counter = middleware.NewRedisWindowCounter(rdb)
		checks = append(checks, api.DependencyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	} else {
		log.Warn("redis_not_configured", slog.String("fallback", "process_memory"))
		store = cache.NewMemory()
		counter = middleware.NewMemoryWindowCounter(rootCtx)
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Snapshots ──────────────────────────────────────────────────────
	content, err := snapshot.Load(cfg.SnapshotDir, log)
	must(log, err, "load content snapshots")

	// ── 7. Upstream clients ───────────────────────────────────────────────
	// Both equran.id versions share one host and one request budget.
	equranLimiter := rate.NewLimiter(rate.Limit(cfg.UpstreamRPS), int(cfg.UpstreamRPS)+1)

	equranV1, err := upstream.New(upstream.Config{BaseURL: cfg.EquranBaseURL, Timeout: cfg.UpstreamTimeout, Limiter: equranLimiter})
	must(log, err, "configure equran v1 client")

	equranV2, err := upstream.New(upstream.Config{BaseURL: cfg.EquranV2BaseURL, Timeout: cfg.UpstreamTimeout, Limiter: equranLimiter})
	must(log, err, "configure equran v2 client")

	quranCom, err := upstream.New(upstream.Config{BaseURL: cfg.QuranComBaseURL, Timeout: cfg.UpstreamTimeout, RPS: cfg.UpstreamRPS})
	must(log, err, "configure quran.com client")

	nominatim, err := upstream.New(upstream.Config{
		BaseURL: cfg.NominatimBaseURL,
		Timeout: cfg.UpstreamTimeout,
		RPS:     cfg.NominatimRPS,
		Header:  http.Header{"Accept-Language": []string{"id"}},
	})
	must(log, err, "configure nominatim client")

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	cookies := preference.Cookies{Secure: cfg.IsProduction()}

	prayerService := prayer.NewService(prayer.NewEquranSource(equranV2), store, prayer.Options{
		ScheduleTTL: cfg.ScheduleCacheTTL,
		LocationTTL: cfg.LocationCacheTTL,
	}, log)
	locationService := location.NewService(prayerService, location.NewNominatimGeocoder(nominatim), log)
	quranService := quran.NewService(quran.NewLiveSource(equranV2, quranCom), content.Quran(), store, cfg.ContentCacheTTL, log)
	doaService := doa.NewService(doa.NewEquranSource(equranV1), content.Doa, store, cfg.ContentCacheTTL, log)

	// Push delivery
	vapid := push.VAPID{PublicKey: cfg.VAPIDPublicKey, PrivateKey: cfg.VAPIDPrivateKey, Subject: cfg.VAPIDSubject}
	pushRepository := push.NewPostgresRepository(pool)
	pushJob := push.NewJob(
		pushRepository,
		push.NewWebPushSender(vapid, &http.Client{Timeout: cfg.UpstreamTimeout}),
		prayerService,
		cfg.PushSendWindow,
		log,
	)

	if cfg.PushCronSecret == "" {
		log.Warn("push_cron_secret_missing", slog.String("effect", "cron endpoint rejects every request"))
	}

	pushHandler := push.NewHandler(push.NewService(pushRepository, log), pushJob, vapid, push.Guards{
		Origin:    middleware.AllowOrigin(cfg.SiteOrigin),
		RateLimit: middleware.RateLimit(counter, cfg.RateLimitMax, cfg.RateLimitWindow),
		Cron:      middleware.RequireCronCredential(sec.NewCronAuthenticator(cfg.PushCronSecret)),
	})

	var scheduler *push.Scheduler
	if cfg.PushSchedule != "" && cfg.PushEnabled() {
		scheduler, err = push.NewScheduler(cfg.PushSchedule, pushJob, log)
		must(log, err, "configure push scheduler")
		scheduler.Start()
	}

	siteHandler, err := site.NewHandler(cfg.SiteOrigin, cfg.IsProduction())
	must(log, err, "configure site handler")

	// ── 9. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Prayer:     prayer.NewHandler(prayerService, cookies.Location),
		Location:   location.NewHandler(locationService),
		Preference: preference.NewHandler(cookies),
		Quran:      quran.NewHandler(quranService, cookies),
		Doa:        doa.NewHandler(doaService),
		Wisdom:     wisdom.NewHandler(),
		Push:       pushHandler,
		Site:       siteHandler,
	}

	server := api.NewServer(cfg, log, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if scheduler != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		scheduler.Stop(stopCtx)
		stopCancel()
	}

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
