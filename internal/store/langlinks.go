// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// LangLink is a row of the langlinks table: a link from a page to the
// corresponding page in another language.
type LangLink struct {
	FromPage int64
	Lang     string
	Title    string
}

// ListLangLinks returns the interlanguage links of a page in insertion order.
func (q *Queries) ListLangLinks(ctx context.Context, pageID int64) ([]LangLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT from_page, lang, title FROM langlinks WHERE from_page = ? ORDER BY rowid`, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var links []LangLink
	for rows.Next() {
		var l LangLink
		if err := rows.Scan(&l.FromPage, &l.Lang, &l.Title); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// UpsertLangLink adds or replaces the link of a page for one language.
func (q *Queries) UpsertLangLink(ctx context.Context, arg LangLink) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO langlinks (from_page, lang, title) VALUES (?, ?, ?)
		ON CONFLICT (from_page, lang) DO UPDATE SET title = excluded.title`,
		arg.FromPage, arg.Lang, arg.Title)
	return err
}

// DeleteLangLinks removes all interlanguage links of a page.
func (q *Queries) DeleteLangLinks(ctx context.Context, pageID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM langlinks WHERE from_page = ?`, pageID)
	return err
}
