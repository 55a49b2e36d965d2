// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
)

// LanguageCookieName is the cookie name for the interface language preference.
const LanguageCookieName = "pagelang_lang"

// UseLangParam is the query parameter that switches the interface language.
const UseLangParam = "uselang"

// DisplayLanguage creates middleware that picks the interface language used
// for labels and log messages. It is unrelated to the content language of
// the page being viewed or edited.
// Priority order:
// 1. Query parameter ?uselang=XX (updates the cookie)
// 2. Cookie preference
// 3. Accept-Language header
// 4. fallback
func DisplayLanguage(fallback string) func(http.Handler) http.Handler {
	if !i18n.IsSupported(fallback) {
		fallback = "en"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := fallback

			if q := strings.ToLower(r.URL.Query().Get(UseLangParam)); q != "" && i18n.IsSupported(q) {
				lang = q
				SetLanguageCookie(w, q)
			} else if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
				lang = strings.ToLower(c.Value)
			} else if accept := r.Header.Get("Accept-Language"); accept != "" {
				lang = i18n.MatchLanguage(accept)
			}

			ctx := context.WithValue(r.Context(), ContextKeyDisplayLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDisplayLanguage returns the interface language of the request, or "en"
// when the DisplayLanguage middleware did not run.
func GetDisplayLanguage(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyDisplayLanguage).(string); ok && lang != "" {
		return lang
	}
	return "en"
}

// SetLanguageCookie sets the interface language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
