// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// ForwardedUserHeader carries the account name authenticated by a trusted
// front proxy.
const ForwardedUserHeader = "X-Forwarded-User"

// maxUserNameLength bounds accepted account names.
const maxUserNameLength = 255

// Performer creates middleware that resolves who is acting on the request.
// A name in ForwardedUserHeader is looked up and registered on first sight;
// without it the request is anonymous and named by the client IP.
func Performer(db *sql.DB, logger *slog.Logger) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := model.AnonymousUser(clientIP(r))

			if name := strings.TrimSpace(r.Header.Get(ForwardedUserHeader)); name != "" && len(name) <= maxUserNameLength {
				u, err := resolveUser(r.Context(), queries, name)
				if err != nil {
					logger.Error("failed to resolve performer", "name", name, "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				user = u
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveUser(ctx context.Context, q *store.Queries, name string) (model.User, error) {
	u, err := q.GetUserByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		u, err = q.CreateUser(ctx, name, time.Now().UTC())
	}
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: u.ID, Name: u.Name}, nil
}

// GetUser returns the performer of the request. Requests that did not pass
// through Performer are anonymous.
func GetUser(r *http.Request) model.User {
	if u, ok := r.Context().Value(ContextKeyUser).(model.User); ok {
		return u
	}
	return model.AnonymousUser(clientIP(r))
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied proxy headers when it is mounted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
