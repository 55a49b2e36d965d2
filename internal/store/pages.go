// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Page is a row of the pages table.
type Page struct {
	ID        int64
	Namespace int
	Title     string
	Body      string
	Lang      string
	Touched   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

const pageColumns = `id, namespace, title, body, lang, touched, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Namespace, &p.Title, &p.Body, &p.Lang, &p.Touched, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetPageByTitle returns the page with the given namespace and title text.
func (q *Queries) GetPageByTitle(ctx context.Context, namespace int, title string) (Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE namespace = ? AND title = ?`,
		namespace, title)
	return scanPage(row)
}

// GetPageByID returns the page with the given ID.
func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// ListPages returns all pages ordered by namespace and title.
func (q *Queries) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY namespace, title`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// CreatePageParams holds the fields of a new page.
type CreatePageParams struct {
	Namespace int
	Title     string
	Body      string
	Lang      string
	Now       time.Time
}

// CreatePage inserts a page and returns it.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pages (namespace, title, body, lang, touched, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+pageColumns,
		arg.Namespace, arg.Title, arg.Body, arg.Lang, arg.Now, arg.Now, arg.Now)
	return scanPage(row)
}

// UpdatePageBodyParams holds the fields for a text update.
type UpdatePageBodyParams struct {
	ID   int64
	Body string
	Now  time.Time
}

// UpdatePageBody replaces the current text of a page.
func (q *Queries) UpdatePageBody(ctx context.Context, arg UpdatePageBodyParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE pages SET body = ?, touched = ?, updated_at = ? WHERE id = ?`,
		arg.Body, arg.Now, arg.Now, arg.ID)
	return requireAffected(res, err)
}

// UpdatePageLanguageParams holds the fields for a content language update.
type UpdatePageLanguageParams struct {
	ID   int64
	Lang string
}

// UpdatePageLanguage sets the content language of a page.
// Returns sql.ErrNoRows if no page has the given ID.
func (q *Queries) UpdatePageLanguage(ctx context.Context, arg UpdatePageLanguageParams) error {
	res, err := q.db.ExecContext(ctx, `UPDATE pages SET lang = ? WHERE id = ?`, arg.Lang, arg.ID)
	return requireAffected(res, err)
}

// TouchPage bumps the touched timestamp used to validate rendered copies.
func (q *Queries) TouchPage(ctx context.Context, id int64, now time.Time) error {
	res, err := q.db.ExecContext(ctx, `UPDATE pages SET touched = ? WHERE id = ?`, now, id)
	return requireAffected(res, err)
}

// requireAffected turns a zero-row update into sql.ErrNoRows.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
