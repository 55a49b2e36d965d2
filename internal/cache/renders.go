// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/metrics"
)

// Rendered is a cached rendering of a page body.
type Rendered struct {
	HTML    template.HTML `json:"html"`
	Lang    string        `json:"lang"`
	Dir     string        `json:"dir"`
	Touched time.Time     `json:"touched"`
}

// RenderCache caches rendered page bodies by page ID and content language.
type RenderCache struct {
	backend Cacher
	ttl     time.Duration
}

// NewRenderCache wraps a backend. A zero ttl uses the backend default.
func NewRenderCache(backend Cacher, ttl time.Duration) *RenderCache {
	return &RenderCache{backend: backend, ttl: ttl}
}

func renderPrefix(pageID int64) string {
	return fmt.Sprintf("render:%d:", pageID)
}

func renderKey(pageID int64, lang string) string {
	return renderPrefix(pageID) + lang
}

// Get returns the cached rendering of a page in a content language.
// A copy older than touched is stale and reported as a miss.
func (c *RenderCache) Get(ctx context.Context, pageID int64, lang string, touched time.Time) (Rendered, bool) {
	data, err := c.backend.Get(ctx, renderKey(pageID, lang))
	if err != nil {
		metrics.RecordRenderCache(false)
		return Rendered{}, false
	}

	var r Rendered
	if err := json.Unmarshal(data, &r); err != nil || r.Touched.Before(touched) {
		metrics.RecordRenderCache(false)
		return Rendered{}, false
	}

	metrics.RecordRenderCache(true)
	return r, true
}

// Set stores the rendering of a page.
func (c *RenderCache) Set(ctx context.Context, pageID int64, r Rendered) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding rendered page: %w", err)
	}
	return c.backend.Set(ctx, renderKey(pageID, r.Lang), data, c.ttl)
}

// InvalidatePage drops every cached rendering of a page.
func (c *RenderCache) InvalidatePage(ctx context.Context, pageID int64) error {
	if err := c.backend.DeleteByPrefix(ctx, renderPrefix(pageID)); err != nil && !errors.Is(err, ErrCacheMiss) {
		return fmt.Errorf("invalidating page %d: %w", pageID, err)
	}
	metrics.RenderCacheInvalidationsTotal.Inc()
	return nil
}
