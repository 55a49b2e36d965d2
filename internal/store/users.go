// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// User is a row of the users table.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// GetUserByName returns the registered user with the given name.
func (q *Queries) GetUserByName(ctx context.Context, name string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE name = ?`, name,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	return u, err
}

// CreateUser registers a user name.
func (q *Queries) CreateUser(ctx context.Context, name string, now time.Time) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO users (name, created_at) VALUES (?, ?) RETURNING id, name, created_at`,
		name, now,
	).Scan(&u.ID, &u.Name, &u.CreatedAt)
	return u, err
}
