// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared between the store, the wiki host
// and modules: namespaces, users, audit log entries and languages.
package model

// User is the performer of an edit.
// Anonymous editors have ID 0 and are named by their IP address.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsAnonymous returns true if the user is not a registered account.
func (u User) IsAnonymous() bool {
	return u.ID == 0
}

// AnonymousUser returns the performer used for unauthenticated edits.
func AnonymousUser(ip string) User {
	if ip == "" {
		ip = "127.0.0.1"
	}
	return User{Name: ip}
}
