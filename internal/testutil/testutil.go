// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with core migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "pagelang-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// CreatePage inserts a page and fails the test on error.
func CreatePage(t *testing.T, db *sql.DB, namespace int, title, lang string) store.Page {
	t.Helper()

	p, err := store.New(db).CreatePage(context.Background(), store.CreatePageParams{
		Namespace: namespace,
		Title:     title,
		Body:      "Text of " + title,
		Lang:      lang,
		Now:       time.Now(),
	})
	if err != nil {
		t.Fatalf("CreatePage(%q): %v", title, err)
	}
	return p
}

// AddLangLinks stores interlanguage links ("code:target") for a page.
func AddLangLinks(t *testing.T, db *sql.DB, pageID int64, links map[string]string) {
	t.Helper()

	q := store.New(db)
	for lang, target := range links {
		if err := q.UpsertLangLink(context.Background(), store.LangLink{FromPage: pageID, Lang: lang, Title: target}); err != nil {
			t.Fatalf("UpsertLangLink(%s): %v", lang, err)
		}
	}
}
