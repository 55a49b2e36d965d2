// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package module provides the extension system of the wiki host.
// Modules hook into the edit pipeline and the page view, and may add
// routes, template functions and database migrations of their own.
package module

import (
	"database/sql"
	"html/template"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-pagelang/internal/config"
	"github.com/olegiv/ocms-pagelang/internal/service"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// Context provides access to host services for modules.
type Context struct {
	DB     *sql.DB
	Store  *store.Queries
	Logger *slog.Logger
	Config *config.Config
	Hooks  *HookRegistry
	Logs   *service.LogService
}

// Module defines the interface that all modules must implement.
type Module interface {
	// Name returns the module name.
	Name() string
	// Version returns the module version.
	Version() string
	// Description returns the module description.
	Description() string
	// Dependencies returns the names of modules that must be registered first.
	Dependencies() []string

	// Init initializes the module with the given context.
	Init(ctx *Context) error
	// Shutdown performs cleanup when the host is shutting down.
	Shutdown() error

	// RegisterRoutes registers public routes for the module.
	RegisterRoutes(r chi.Router)

	// TemplateFuncs returns template functions provided by the module.
	TemplateFuncs() template.FuncMap

	// Migrations returns migrations for the module.
	Migrations() []Migration
}

// Migration represents a database migration for a module.
type Migration struct {
	Version     int64
	Description string
	Up          func(db *sql.DB) error
	Down        func(db *sql.DB) error
}

// BaseModule provides no-op implementations of the Module interface.
// Modules embed it and override what they need.
type BaseModule struct {
	name        string
	version     string
	description string
	ctx         *Context
}

// NewBaseModule creates a new BaseModule with the given metadata.
func NewBaseModule(name, version, description string) BaseModule {
	return BaseModule{
		name:        name,
		version:     version,
		description: description,
	}
}

// Name returns the module name.
func (m *BaseModule) Name() string { return m.name }

// Version returns the module version.
func (m *BaseModule) Version() string { return m.version }

// Description returns the module description.
func (m *BaseModule) Description() string { return m.description }

// Dependencies returns nil.
func (m *BaseModule) Dependencies() []string { return nil }

// Init stores the context.
func (m *BaseModule) Init(ctx *Context) error {
	m.ctx = ctx
	return nil
}

// Shutdown does nothing.
func (m *BaseModule) Shutdown() error { return nil }

// RegisterRoutes registers nothing.
func (m *BaseModule) RegisterRoutes(_ chi.Router) {}

// TemplateFuncs returns nil.
func (m *BaseModule) TemplateFuncs() template.FuncMap { return nil }

// Migrations returns nil.
func (m *BaseModule) Migrations() []Migration { return nil }

// Context returns the context passed to Init.
func (m *BaseModule) Context() *Context { return m.ctx }
