// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-pagelang/internal/metrics"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

// Updater applies a captured language change after a save.
type Updater struct {
	changes *ChangeLogger
	logger  *slog.Logger
}

// NewUpdater creates an Updater that logs through changes.
func NewUpdater(changes *ChangeLogger, logger *slog.Logger) *Updater {
	return &Updater{changes: changes, logger: logger}
}

// SetLanguage queues the language update of the edited page on the edit's
// transaction round, invalidates the page's cached renderings and logs the
// change. q is the Queries of the save; the update itself runs once the
// round is idle and resolves the page ID only then.
func (u *Updater) SetLanguage(ctx context.Context, edit *wiki.EditPage, q *store.Queries, change Change) error {
	err := edit.Round.OnTransactionIdle(ctx, func(ctx context.Context, idle *store.Queries) error {
		pageID := edit.Title.ArticleID()
		if err := idle.UpdatePageLanguage(ctx, store.UpdatePageLanguageParams{
			ID:   pageID,
			Lang: change.New,
		}); err != nil {
			metrics.RecordLanguageChangeError("update")
			return fmt.Errorf("setting language of page %d: %w", pageID, err)
		}
		metrics.RecordLanguageChange(change.New)
		u.logger.Info("page language changed",
			"page_id", pageID,
			"title", edit.Title.Prefixed(),
			"old", change.Old,
			"new", change.New,
		)
		return nil
	})
	if err != nil {
		return err
	}
	u.logger.Debug("language update queued",
		"title", edit.Title.Prefixed(),
		"deferred", edit.Round.InTransaction(),
		"pending", edit.Round.Pending(),
	)

	if err := edit.Title.InvalidateCache(ctx, q); err != nil {
		metrics.RecordLanguageChangeError("invalidate")
		return fmt.Errorf("invalidating %q: %w", edit.Title.Prefixed(), err)
	}

	if _, err := u.changes.LogChange(ctx, q, edit.User, edit.Title, change); err != nil {
		metrics.RecordLanguageChangeError("log")
		return fmt.Errorf("logging language change of %q: %w", edit.Title.Prefixed(), err)
	}
	return nil
}
