// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// LogRow is a row of the logging table. Params holds a JSON object.
type LogRow struct {
	ID        int64
	LogType   string
	LogAction string
	ActorID   sql.NullInt64
	ActorName string
	PageID    int64
	Namespace int
	Title     string
	Params    string
	Published bool
	Timestamp time.Time
}

// InsertLogParams holds the fields of a new audit log row.
type InsertLogParams struct {
	LogType   string
	LogAction string
	ActorID   sql.NullInt64
	ActorName string
	PageID    int64
	Namespace int
	Title     string
	Params    string
	Timestamp time.Time
}

// InsertLog adds an unpublished audit log row and returns its ID.
func (q *Queries) InsertLog(ctx context.Context, arg InsertLogParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO logging (log_type, log_action, actor_id, actor_name, page_id, namespace, title, params, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		arg.LogType, arg.LogAction, arg.ActorID, arg.ActorName, arg.PageID, arg.Namespace, arg.Title, arg.Params, arg.Timestamp,
	).Scan(&id)
	return id, err
}

// MarkLogPublished flags a log row as published.
// Returns sql.ErrNoRows if the row does not exist or is already published.
func (q *Queries) MarkLogPublished(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `UPDATE logging SET published = 1 WHERE id = ? AND published = 0`, id)
	return requireAffected(res, err)
}

const logColumns = `id, log_type, log_action, actor_id, actor_name, page_id, namespace, title, params, published, timestamp`

func scanLog(row interface{ Scan(...any) error }) (LogRow, error) {
	var l LogRow
	err := row.Scan(&l.ID, &l.LogType, &l.LogAction, &l.ActorID, &l.ActorName,
		&l.PageID, &l.Namespace, &l.Title, &l.Params, &l.Published, &l.Timestamp)
	return l, err
}

// GetLog returns a log row by ID.
func (q *Queries) GetLog(ctx context.Context, id int64) (LogRow, error) {
	return scanLog(q.db.QueryRowContext(ctx, `SELECT `+logColumns+` FROM logging WHERE id = ?`, id))
}

// ListLogsParams filters a log listing.
type ListLogsParams struct {
	LogType string
	PageID  int64 // 0 = any page
	Limit   int
}

// ListPublishedLogs returns published log rows of a type, newest first.
func (q *Queries) ListPublishedLogs(ctx context.Context, arg ListLogsParams) ([]LogRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+logColumns+` FROM logging
		WHERE log_type = ? AND published = 1 AND (? = 0 OR page_id = ?)
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`,
		arg.LogType, arg.PageID, arg.PageID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []LogRow
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountLogs returns the number of log rows of a type, published or not.
func (q *Queries) CountLogs(ctx context.Context, logType string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logging WHERE log_type = ?`, logType).Scan(&n)
	return n, err
}

// RecentChange is a row of the recent_changes table.
type RecentChange struct {
	ID        int64
	RCType    string
	LogID     sql.NullInt64
	LogType   string
	LogAction string
	ActorName string
	PageID    int64
	Namespace int
	Title     string
	Timestamp time.Time
}

// InsertRecentChange adds a recent changes row and returns its ID.
func (q *Queries) InsertRecentChange(ctx context.Context, arg RecentChange) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO recent_changes (rc_type, log_id, log_type, log_action, actor_name, page_id, namespace, title, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		arg.RCType, arg.LogID, arg.LogType, arg.LogAction, arg.ActorName, arg.PageID, arg.Namespace, arg.Title, arg.Timestamp,
	).Scan(&id)
	return id, err
}

// ListRecentChanges returns the newest recent changes rows.
func (q *Queries) ListRecentChanges(ctx context.Context, limit int) ([]RecentChange, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, rc_type, log_id, log_type, log_action, actor_name, page_id, namespace, title, timestamp
		FROM recent_changes ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var changes []RecentChange
	for rows.Next() {
		var rc RecentChange
		if err := rows.Scan(&rc.ID, &rc.RCType, &rc.LogID, &rc.LogType, &rc.LogAction,
			&rc.ActorName, &rc.PageID, &rc.Namespace, &rc.Title, &rc.Timestamp); err != nil {
			return nil, err
		}
		changes = append(changes, rc)
	}
	return changes, rows.Err()
}

// DeleteRecentChangesBefore removes recent changes rows older than cutoff
// and returns how many were deleted. Log rows are kept.
func (q *Queries) DeleteRecentChangesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM recent_changes WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
