// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the wiki front end:
// display language detection, performer resolution and request hardening.
package middleware

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyDisplayLanguage ContextKey = "display_language"
	ContextKeyUser            ContextKey = "user"
)
