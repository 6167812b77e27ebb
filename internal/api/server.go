// SPDX-License-Identifier: MIT

// Package api implements the HTTP surface of foamd: rendered note pages,
// raw file access, autocomplete and backlink queries, and the operator
// endpoints that trigger sync and reindex jobs. Serving is strictly
// read-only with respect to the notes root.
package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foamd/foamd/internal/api/middleware"
	"github.com/foamd/foamd/internal/config"
	"github.com/foamd/foamd/internal/health"
	"github.com/foamd/foamd/internal/jobs"
	"github.com/foamd/foamd/internal/notes"
	"github.com/foamd/foamd/internal/render"
)

// Server holds the HTTP handler state.
type Server struct {
	cfg    config.AppConfig
	index  *notes.Index
	cache  *render.Cache
	health *health.Manager

	startTime time.Time

	// jobMu guards the job status fields; refreshing serializes the
	// operator-triggered jobs themselves.
	jobMu         sync.Mutex
	refreshing    atomic.Bool
	syncStatus    jobs.Status
	reindexStatus jobs.Status
}

// Options configures a new Server.
type Options struct {
	Config        config.AppConfig
	Index         *notes.Index
	RenderCache   *render.Cache
	HealthManager *health.Manager
}

// New creates an API server. The health manager may be nil, in which case
// /healthz and /readyz answer from a manager with no checkers.
func New(opts Options) *Server {
	hm := opts.HealthManager
	if hm == nil {
		hm = health.NewManager(opts.Config.Version)
	}
	return &Server{
		cfg:       opts.Config,
		index:     opts.Index,
		cache:     opts.RenderCache,
		health:    hm,
		startTime: time.Now(),
	}
}

// Routes builds the HTTP handler with the canonical middleware stack.
func (s *Server) Routes() http.Handler {
	tracingService := ""
	if s.cfg.TracingEnabled {
		tracingService = s.cfg.LogService
	}

	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            true,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         s.cfg.MetricsEnabled,
		TracingService:        tracingService,
		EnableLogging:         true,
		EnableRateLimit:       s.cfg.RateLimitEnabled,
		RateLimitPerMin:       s.cfg.RateLimitRPM,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/complete", s.handleComplete)
		r.Get("/notes", s.handleNotes)
		r.Get("/backlinks/{stem}", s.handleBacklinks)
		r.Get("/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JobRateLimit())
			r.Post("/sync", s.handleSync)
			r.Post("/reindex", s.handleReindex)
		})
	})

	r.Handle("/raw/*", http.StripPrefix("/raw", s.secureFileServer()))

	r.Get("/", s.handleIndexPage)
	r.Get("/{stem}", s.handleNotePage)

	return r
}

// MetricsHandler returns the Prometheus scrape handler for the metrics
// listener.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
