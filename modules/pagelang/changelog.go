// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"context"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/service"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

// ChangeLogger records page language changes in the audit log.
type ChangeLogger struct {
	logs *service.LogService
}

// NewChangeLogger creates a ChangeLogger writing through logs.
func NewChangeLogger(logs *service.LogService) *ChangeLogger {
	return &ChangeLogger{logs: logs}
}

// NewEntry builds the pagelang log entry for a change.
func NewEntry(user model.User, title *wiki.Title, change Change) model.LogEntry {
	return model.LogEntry{
		Type:      model.LogTypePageLang,
		Action:    model.LogActionPageLang,
		Performer: user,
		Target: model.LogTarget{
			PageID:    title.ArticleID(),
			Namespace: title.Namespace,
			Title:     title.Text,
		},
		Params: map[string]string{
			model.LogParamOldLanguage: change.Old,
			model.LogParamNewLanguage: change.New,
		},
	}
}

// LogChange inserts and then publishes the log entry of a change and
// returns its ID. A non-nil q makes both writes join q's transaction.
func (l *ChangeLogger) LogChange(ctx context.Context, q *store.Queries, user model.User, title *wiki.Title, change Change) (int64, error) {
	logs := l.logs
	if q != nil {
		logs = logs.WithQueries(q)
	}

	id, err := logs.InsertLogEntry(ctx, NewEntry(user, title, change))
	if err != nil {
		return 0, err
	}
	if err := logs.PublishLogEntry(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}
