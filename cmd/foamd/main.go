// SPDX-License-Identifier: MIT

// foamd is the personal notes webserver daemon. It serves rendered notes
// from NOTES_ROOT, never writing to it, and exposes operator endpoints for
// submodule sync and reindexing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/foamd/foamd/internal/api"
	"github.com/foamd/foamd/internal/config"
	"github.com/foamd/foamd/internal/daemon"
	"github.com/foamd/foamd/internal/health"
	"github.com/foamd/foamd/internal/jobs"
	foamlog "github.com/foamd/foamd/internal/log"
	"github.com/foamd/foamd/internal/notes"
	"github.com/foamd/foamd/internal/render"
	"github.com/foamd/foamd/internal/store"
	"github.com/foamd/foamd/internal/telemetry"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe logging defaults until the config is loaded.
	foamlog.Configure(foamlog.Config{
		Level:   "info",
		Service: "foamd",
		Version: version,
	})
	logger := foamlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path precedence: --config > FOAMD_CONFIG > none (ENV only).
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		effectiveConfigPath = strings.TrimSpace(config.ParseString("FOAMD_CONFIG", ""))
	}

	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Fatal().
				Err(err).
				Str("event", "config.load_failed").
				Str("field", cfgErr.Field).
				Msg("invalid configuration")
		}
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	foamlog.Configure(foamlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	serverCfg := config.ParseServerConfig()
	// ENV wins for the listen address; config file fills the gap.
	if strings.TrimSpace(config.ParseString("FOAMD_LISTEN", "")) == "" && cfg.ListenAddr != "" {
		serverCfg.ListenAddr = cfg.ListenAddr
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting foamd")
	logger.Info().Msgf("→ Notes root: %s", cfg.NotesRoot)
	logger.Info().Msgf("→ Cache dir: %s", cfg.CacheDir)
	logger.Info().Msgf("→ Index note: %s", cfg.IndexNote)

	// Tracing (noop unless enabled).
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   1.0,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "telemetry.init_failed").
			Msg("failed to initialize tracing")
	}

	// Operator-requested sync before serving. A failure is fatal here: the
	// operator asked for fresh notes and did not get them. No retry.
	if cfg.SyncOnStart {
		logger.Info().Str("event", "job.sync.start").Str("repo", cfg.RepoDir).Msg("syncing notes submodule before serving")
		if err := jobs.Sync(ctx, jobs.SyncConfig{RepoDir: cfg.RepoDir}); err != nil {
			logger.Fatal().
				Err(err).
				Str("event", "job.sync.failed").
				Msg("submodule sync failed")
		}
	}

	st, err := store.Open(cfg.CacheDir)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "store.open_failed").
			Str("cache_dir", cfg.CacheDir).
			Msg("failed to open cache store")
	}

	index := notes.NewIndex(cfg.NotesRoot, st)
	status, err := jobs.Reindex(ctx, index, cfg.CacheDir)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "job.reindex.failed").
			Msg("initial index scan failed")
	}
	logger.Info().Str("event", "job.reindex.done").Int("notes", status.Notes).Msg("note index ready")

	renderCache := render.NewCache(render.New(), st)
	renderCache.IgnoreCache = cfg.IgnoreCache

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewNotesRootChecker(cfg.NotesRoot))
	hm.RegisterChecker(health.NewStoreChecker(st))

	apiServer := api.New(api.Options{
		Config:        cfg,
		Index:         index,
		RenderCache:   renderCache,
		HealthManager: hm,
	})

	deps := daemon.Deps{
		Logger:     foamlog.WithComponent("daemon"),
		APIHandler: apiServer.Routes(),
	}
	if cfg.MetricsEnabled {
		deps.MetricsHandler = api.MetricsHandler()
		deps.MetricsAddr = cfg.MetricsAddr
	}

	manager, err := daemon.NewManager(serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.init_failed").
			Msg("failed to create daemon manager")
	}

	manager.RegisterShutdownHook("telemetry", tp.Shutdown)
	manager.RegisterShutdownHook("cache-store", func(context.Context) error {
		return st.Close()
	})

	watcher, err := notes.NewWatcher(index)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("event", "watcher.init_failed").
			Msg("live rescanning disabled")
		watcher = nil
	}

	app := daemon.NewApp(foamlog.WithComponent("app"), manager, watcher)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon exited with error")
	}

	logger.Info().Str("event", "shutdown.complete").Msg("foamd stopped")
}
