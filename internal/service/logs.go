// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the audit log service shared by the wiki host
// and its modules.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// RCTypeLog marks recent changes rows that announce a log entry.
const RCTypeLog = "log"

// LogService writes and reads audit log entries.
type LogService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewLogService creates a LogService on db.
func NewLogService(db store.DBTX) *LogService {
	return &LogService{
		queries: store.New(db),
		now:     time.Now,
	}
}

// WithQueries returns a copy of the service bound to q, typically the
// Queries of an open transaction.
func (s *LogService) WithQueries(q *store.Queries) *LogService {
	return &LogService{queries: q, now: s.now}
}

// InsertLogEntry stores an unpublished entry and returns its ID. A zero
// Timestamp is set to the current time.
func (s *LogService) InsertLogEntry(ctx context.Context, entry model.LogEntry) (int64, error) {
	params := entry.Params
	if params == nil {
		params = map[string]string{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("encoding log params: %w", err)
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	var actorID sql.NullInt64
	if !entry.Performer.IsAnonymous() {
		actorID = sql.NullInt64{Int64: entry.Performer.ID, Valid: true}
	}

	id, err := s.queries.InsertLog(ctx, store.InsertLogParams{
		LogType:   entry.Type,
		LogAction: entry.Action,
		ActorID:   actorID,
		ActorName: entry.Performer.Name,
		PageID:    entry.Target.PageID,
		Namespace: entry.Target.Namespace,
		Title:     entry.Target.Title,
		Params:    string(paramsJSON),
		Timestamp: ts,
	})
	if err != nil {
		return 0, fmt.Errorf("inserting %s log entry: %w", entry.Type, err)
	}
	return id, nil
}

// PublishLogEntry marks an inserted entry as published and announces it
// in recent changes. Publishing an entry twice fails with sql.ErrNoRows.
func (s *LogService) PublishLogEntry(ctx context.Context, id int64) error {
	row, err := s.queries.GetLog(ctx, id)
	if err != nil {
		return fmt.Errorf("loading log entry %d: %w", id, err)
	}
	if err := s.queries.MarkLogPublished(ctx, id); err != nil {
		return fmt.Errorf("publishing log entry %d: %w", id, err)
	}

	if _, err := s.queries.InsertRecentChange(ctx, store.RecentChange{
		RCType:    RCTypeLog,
		LogID:     sql.NullInt64{Int64: id, Valid: true},
		LogType:   row.LogType,
		LogAction: row.LogAction,
		ActorName: row.ActorName,
		PageID:    row.PageID,
		Namespace: row.Namespace,
		Title:     row.Title,
		Timestamp: row.Timestamp,
	}); err != nil {
		return fmt.Errorf("adding recent change for log entry %d: %w", id, err)
	}
	return nil
}

// Record inserts and publishes an entry in one call.
func (s *LogService) Record(ctx context.Context, entry model.LogEntry) (int64, error) {
	id, err := s.InsertLogEntry(ctx, entry)
	if err != nil {
		return 0, err
	}
	if err := s.PublishLogEntry(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}

// ListLogEntries returns published entries of logType, newest first.
// A zero pageID lists entries of all pages.
func (s *LogService) ListLogEntries(ctx context.Context, logType string, pageID int64, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.queries.ListPublishedLogs(ctx, store.ListLogsParams{
		LogType: logType,
		PageID:  pageID,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s log entries: %w", logType, err)
	}

	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := entryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromRow(row store.LogRow) (model.LogEntry, error) {
	params := map[string]string{}
	if row.Params != "" {
		if err := json.Unmarshal([]byte(row.Params), &params); err != nil {
			return model.LogEntry{}, fmt.Errorf("decoding params of log entry %d: %w", row.ID, err)
		}
	}
	return model.LogEntry{
		ID:        row.ID,
		Type:      row.LogType,
		Action:    row.LogAction,
		Performer: model.User{ID: row.ActorID.Int64, Name: row.ActorName},
		Target: model.LogTarget{
			PageID:    row.PageID,
			Namespace: row.Namespace,
			Title:     row.Title,
		},
		Params:    params,
		Published: row.Published,
		Timestamp: row.Timestamp,
	}, nil
}
