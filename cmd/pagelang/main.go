// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/config"
	"github.com/olegiv/ocms-pagelang/internal/handler"
	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/logging"
	"github.com/olegiv/ocms-pagelang/internal/middleware"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/render"
	"github.com/olegiv/ocms-pagelang/internal/scheduler"
	"github.com/olegiv/ocms-pagelang/internal/service"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/version"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
	"github.com/olegiv/ocms-pagelang/modules/pagelang"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "pagelang - wiki with per-page content languages\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_CSRF_KEY               CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_DB_PATH                SQLite database path (default: ./data/pagelang.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_LANGUAGE_CODE          Site content language (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_ALWAYS_SHOW_LANGUAGES  Languages always listed in language links (default: en)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_VALIDATE_CODES         Reject unknown submitted language codes (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_DISABLED_MODULES       Comma-separated modules stored as inactive\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_RC_MAX_AGE_DAYS        Days recent changes are kept, 0 keeps forever (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_EDIT_RATE_LIMIT        Edit submissions per second per editor, 0 disables (default: 1)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PAGELANG_REDIS_URL              Redis URL for the shared render cache (optional)\n")
	}

	flag.Parse()

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.SlogLevel(), JSON: !cfg.IsDevelopment()}
	logger, _ := logging.New(os.Stdout, logOpts, nil)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	logs := service.NewLogService(db)
	logger, closeAudit := logging.New(os.Stdout, logOpts, logs)
	defer closeAudit()
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed, cfg.LanguageCode); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	cacheConfig := cache.Config{
		Type:             "memory",
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
	}
	backend, info, err := cache.NewCache(cacheConfig, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = backend.Close() }()
	if info.IsFallback {
		slog.Warn("render cache initialized", "backend", info.Backend, "note", "Redis unavailable, using fallback")
	} else {
		slog.Info("render cache initialized", "backend", info.Backend)
	}

	hooks := module.NewHookRegistry(logger)
	moduleRegistry := module.NewRegistry(logger)
	if err := moduleRegistry.Register(pagelang.New()); err != nil {
		return fmt.Errorf("registering pagelang module: %w", err)
	}
	if err := moduleRegistry.InitAll(&module.Context{
		DB:     db,
		Store:  store.New(db),
		Logger: logger,
		Config: cfg,
		Hooks:  hooks,
		Logs:   logs,
	}); err != nil {
		return fmt.Errorf("initializing modules: %w", err)
	}
	if err := moduleRegistry.ApplyDisabled(cfg.DisabledModules); err != nil {
		return fmt.Errorf("applying disabled modules: %w", err)
	}
	defer func() {
		if err := moduleRegistry.ShutdownAll(); err != nil {
			slog.Error("module shutdown", "error", err)
		}
	}()

	sched := scheduler.New(db, scheduler.Config{
		PruneSchedule: cfg.RCPruneSchedule,
		MaxAge:        cfg.RCMaxAge(),
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	host := wiki.New(wiki.Config{
		DB:              db,
		Hooks:           hooks,
		Renders:         cache.NewRenderCache(backend, time.Duration(cfg.CacheTTL)*time.Second),
		Renderer:        render.New(),
		Logger:          logger,
		DefaultLanguage: cfg.LanguageCode,
	})

	wikiHandler, err := handler.NewWikiHandler(host, logger, moduleRegistry.AllTemplateFuncs())
	if err != nil {
		return err
	}
	healthHandler := handler.NewHealthHandler(db, versionInfo, handler.HealthDeps{
		Modules: moduleRegistry,
		Hooks:   hooks,
		Cache:   backend,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.CSRFKey), cfg.IsDevelopment(), cfg.ServerAddr())))
		r.Use(middleware.DisplayLanguage(cfg.LanguageCode))
		r.Use(middleware.Performer(db, logger))
		r.Use(middleware.EditRateLimit(cfg.EditRateLimit, cfg.EditRateBurst))

		wikiHandler.Routes(r)
		moduleRegistry.RouteAll(r)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
