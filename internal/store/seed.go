// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// seedPage describes a page created by Seed.
type seedPage struct {
	Namespace int
	Title     string
	Body      string
	Links     map[string]string // lang -> title
}

var seedPages = []seedPage{
	{
		Namespace: 0,
		Title:     "Main Page",
		Body:      "# Welcome\n\nThis wiki keeps one content language per page.",
		Links:     map[string]string{"de": "Hauptseite", "fr": "Accueil"},
	},
	{
		Namespace: 4,
		Title:     "About",
		Body:      "About this project.",
		Links:     map[string]string{"ru": "О проекте"},
	},
	{
		Namespace: 12,
		Title:     "Contents",
		Body:      "Help pages do not show interlanguage links.",
	},
}

// Seed creates a small set of pages with interlanguage links.
// It does nothing unless doSeed is true or when the pages already exist.
func Seed(ctx context.Context, db *sql.DB, doSeed bool, defaultLang string) error {
	if !doSeed {
		slog.Info("seeding disabled, skipping")
		return nil
	}

	queries := New(db)
	now := time.Now()

	for _, sp := range seedPages {
		_, err := queries.GetPageByTitle(ctx, sp.Namespace, sp.Title)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking page %q: %w", sp.Title, err)
		}

		page, err := queries.CreatePage(ctx, CreatePageParams{
			Namespace: sp.Namespace,
			Title:     sp.Title,
			Body:      sp.Body,
			Lang:      defaultLang,
			Now:       now,
		})
		if err != nil {
			return fmt.Errorf("creating page %q: %w", sp.Title, err)
		}

		for lang, title := range sp.Links {
			if err := queries.UpsertLangLink(ctx, LangLink{FromPage: page.ID, Lang: lang, Title: title}); err != nil {
				return fmt.Errorf("adding %s link to %q: %w", lang, sp.Title, err)
			}
		}

		slog.Info("seeded page", "id", page.ID, "namespace", page.Namespace, "title", page.Title)
	}

	return nil
}
