// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wiki

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/render"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// Config holds the collaborators of a Host.
type Config struct {
	DB              *sql.DB
	Hooks           *module.HookRegistry
	Renders         *cache.RenderCache // optional
	Renderer        *render.Renderer
	Logger          *slog.Logger
	DefaultLanguage string
}

// Host runs the edit pipeline and page views.
type Host struct {
	db          *sql.DB
	hooks       *module.HookRegistry
	renders     *cache.RenderCache
	renderer    *render.Renderer
	logger      *slog.Logger
	defaultLang string
}

// New creates a Host.
func New(cfg Config) *Host {
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = "en"
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		db:          cfg.DB,
		hooks:       cfg.Hooks,
		renders:     cfg.Renders,
		renderer:    renderer,
		logger:      logger,
		defaultLang: lang,
	}
}

// DefaultLanguage returns the site content language.
func (h *Host) DefaultLanguage() string {
	return h.defaultLang
}

// LoadTitle parses a prefixed title and loads its page through q.
func (h *Host) LoadTitle(ctx context.Context, q *store.Queries, prefixed string) (*Title, error) {
	ns, text := model.SplitTitle(prefixed)
	t := &Title{
		Namespace:   ns,
		Text:        text,
		defaultLang: h.defaultLang,
		renders:     h.renders,
	}
	if err := t.reload(ctx, q); err != nil {
		return nil, err
	}
	return t, nil
}
