// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package wiki is the page host: it loads titles, runs the edit pipeline
// and renders page views, firing module hooks along the way.
package wiki

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// Title is a page name together with the stored page, if any.
type Title struct {
	Namespace int
	Text      string

	page        store.Page
	defaultLang string
	renders     *cache.RenderCache
}

// Exists reports whether the page is stored.
func (t *Title) Exists() bool {
	return t.page.ID != 0
}

// ArticleID returns the page ID, 0 if the page does not exist.
func (t *Title) ArticleID() int64 {
	return t.page.ID
}

// Page returns the stored page row (zero if missing).
func (t *Title) Page() store.Page {
	return t.page
}

// PageLanguage returns the content language of the page. Pages that do
// not exist yet use the site default.
func (t *Title) PageLanguage() string {
	if t.page.Lang != "" {
		return t.page.Lang
	}
	return t.defaultLang
}

// InNamespaces reports whether the title is in one of namespaces.
func (t *Title) InNamespaces(namespaces ...int) bool {
	return slices.Contains(namespaces, t.Namespace)
}

// Prefixed returns the title with its namespace prefix ("Project:About").
func (t *Title) Prefixed() string {
	return model.PrefixedTitle(t.Namespace, t.Text)
}

// Key returns the URL form of the title.
func (t *Title) Key() string {
	return model.TitleKey(t.Namespace, t.Text)
}

// InvalidateCache bumps the page's touched time and drops its cached
// renderings. Missing pages have nothing to invalidate.
func (t *Title) InvalidateCache(ctx context.Context, q *store.Queries) error {
	if !t.Exists() {
		return nil
	}
	now := time.Now()
	if err := q.TouchPage(ctx, t.page.ID, now); err != nil {
		return fmt.Errorf("touching page %d: %w", t.page.ID, err)
	}
	t.page.Touched = now
	if t.renders == nil {
		return nil
	}
	return t.renders.InvalidatePage(ctx, t.page.ID)
}

// reload refreshes the stored page row.
func (t *Title) reload(ctx context.Context, q *store.Queries) error {
	p, err := q.GetPageByTitle(ctx, t.Namespace, t.Text)
	if errors.Is(err, sql.ErrNoRows) {
		t.page = store.Page{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading page %q: %w", t.Prefixed(), err)
	}
	t.page = p
	return nil
}
