// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/version"
)

// HealthDeps are the optional components reported by the health endpoint.
type HealthDeps struct {
	Modules *module.Registry
	Hooks   *module.HookRegistry
	Cache   cache.Cacher
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	version   version.Info
	deps      HealthDeps
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, v version.Info, deps HealthDeps) *HealthHandler {
	return &HealthHandler{
		db:        db,
		version:   v,
		deps:      deps,
		startTime: time.Now(),
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
	Modules   []module.Info    `json:"modules,omitempty"`
	Hooks     map[string]int   `json:"hooks,omitempty"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

// Health handles GET /health. ?verbose=true adds runtime information.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    h.runChecks(r.Context()),
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
		}
		h.addDetails(&status)
	}

	code := http.StatusOK
	for _, check := range status.Checks {
		if check.Status != "healthy" {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, status)
}

func (h *HealthHandler) runChecks(ctx context.Context) map[string]Check {
	checks := map[string]Check{"database": h.checkDatabase(ctx)}
	if h.deps.Modules != nil {
		checks["modules"] = Check{
			Status:  "healthy",
			Message: fmt.Sprintf("%d registered", h.deps.Modules.Count()),
		}
	}
	if p, ok := h.deps.Cache.(pinger); ok {
		checks["cache"] = checkCache(ctx, p)
	}
	return checks
}

// addDetails fills the module, hook and cache sections of a verbose report.
func (h *HealthHandler) addDetails(status *HealthStatus) {
	if h.deps.Modules != nil {
		status.Modules = h.deps.Modules.ListInfo()
	}
	if h.deps.Hooks != nil {
		status.Hooks = make(map[string]int)
		for _, name := range h.deps.Hooks.ListHooks() {
			status.Hooks[name] = h.deps.Hooks.HandlerCount(name)
		}
	}
	if sp, ok := h.deps.Cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		status.Cache = &stats
	}
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks the database and the cache backend.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.runChecks(r.Context()) {
		if check.Status != "healthy" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}

func checkCache(ctx context.Context, p pinger) Check {
	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}
