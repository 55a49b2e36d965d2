// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// IdleFunc is a unit of work queued until the transaction round is idle.
// It receives Queries bound to the database, not to a transaction.
type IdleFunc func(ctx context.Context, q *Queries) error

// Round is the request-scoped transaction round of one database connection.
// Work queued with OnTransactionIdle while a transaction is open runs in
// queue order right after that transaction commits, so it never interleaves
// with the transaction's own writes. Queued work is discarded on rollback.
//
// A Round belongs to a single request and is not safe for concurrent use.
type Round struct {
	db   *sql.DB
	tx   *sql.Tx
	idle []IdleFunc
}

// NewRound returns an idle round on db.
func NewRound(db *sql.DB) *Round {
	return &Round{db: db}
}

// InTransaction reports whether a transaction is open.
func (r *Round) InTransaction() bool {
	return r.tx != nil
}

// Queries returns Queries bound to the open transaction, or to the database
// when the round is idle.
func (r *Round) Queries() *Queries {
	if r.tx != nil {
		return New(r.tx)
	}
	return New(r.db)
}

// Pending returns the number of queued idle callbacks.
func (r *Round) Pending() int {
	return len(r.idle)
}

// WithTx runs fn inside a transaction. On success the transaction commits
// and queued idle callbacks run in order; the first callback error stops
// the queue and is returned. If fn fails the transaction rolls back and the
// queue is discarded. Nested calls reuse the open transaction.
func (r *Round) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	if r.tx != nil {
		return fn(New(r.tx))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	r.tx = tx

	defer func() {
		if p := recover(); p != nil {
			r.abort()
			panic(p)
		}
	}()

	if err := fn(New(tx)); err != nil {
		r.abort()
		return err
	}

	r.tx = nil
	if err := tx.Commit(); err != nil {
		r.idle = nil
		return fmt.Errorf("committing transaction: %w", err)
	}

	return r.flush(ctx)
}

// OnTransactionIdle queues fn to run once no transaction is open. When the
// round is already idle, fn runs immediately and its error is returned.
func (r *Round) OnTransactionIdle(ctx context.Context, fn IdleFunc) error {
	if r.tx == nil {
		return fn(ctx, New(r.db))
	}
	r.idle = append(r.idle, fn)
	return nil
}

// abort rolls the open transaction back and drops queued work.
func (r *Round) abort() {
	tx := r.tx
	r.tx = nil
	r.idle = nil
	if tx != nil {
		_ = tx.Rollback()
	}
}

// flush runs queued idle callbacks. Callbacks may queue more work, which
// runs in the same pass.
func (r *Round) flush(ctx context.Context) error {
	q := New(r.db)
	for len(r.idle) > 0 {
		fn := r.idle[0]
		r.idle = r.idle[1:]
		if err := fn(ctx, q); err != nil {
			dropped := len(r.idle)
			r.idle = nil
			if dropped > 0 {
				return fmt.Errorf("deferred write failed, %d queued writes dropped: %w", dropped, err)
			}
			return fmt.Errorf("deferred write failed: %w", err)
		}
	}
	return nil
}
