// Copyright (c) 2026 Harian Muslim. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/harianmuslim/internal/content/doa"
	"github.com/taibuivan/harianmuslim/internal/content/quran"
	"github.com/taibuivan/harianmuslim/internal/content/wisdom"
	"github.com/taibuivan/harianmuslim/internal/location"
	"github.com/taibuivan/harianmuslim/internal/platform/config"
	"github.com/taibuivan/harianmuslim/internal/platform/constants"
	"github.com/taibuivan/harianmuslim/internal/platform/metrics"
	"github.com/taibuivan/harianmuslim/internal/platform/middleware"
	"github.com/taibuivan/harianmuslim/internal/prayer"
	"github.com/taibuivan/harianmuslim/internal/preference"
	"github.com/taibuivan/harianmuslim/internal/push"
	"github.com/taibuivan/harianmuslim/internal/site"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, always 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Prayer     *prayer.Handler
	Location   *location.Handler
	Preference *preference.Handler
	Quran      *quran.Handler
	Doa        *doa.Handler
	Wisdom     *wisdom.Handler

	// Push serves subscriptions and the delivery trigger under /api/push.
	Push *push.Handler

	// Site serves sitemap.xml and robots.txt.
	Site *site.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(metrics.Instrument)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/sitemap.xml", h.Site.Sitemap)
	r.Get("/robots.txt", h.Site.Robots)

	// # Application API
	// Read endpoints mounted under the versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))

		api.Mount("/prayer", h.Prayer.Routes())
		api.Mount("/location", h.Location.Routes())
		api.Mount("/preferences", h.Preference.Routes())
		api.Mount("/quran", h.Quran.Routes())
		api.Mount("/doa", h.Doa.Routes())
		api.Mount("/wisdom", h.Wisdom.Routes())
	})

	// # Push
	// The delivery trigger runs the whole job inside the request, so it carries
	// its own deadline instead of the global one.
	r.Mount("/api/push", h.Push.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
