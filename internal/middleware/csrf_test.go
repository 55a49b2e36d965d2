// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	prod := DefaultCSRFConfig(testKey, false, "wiki.example.org:443")
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", prod.TrustedOrigins)
	}

	dev := DefaultCSRFConfig(testKey, true, "localhost:9000")
	if len(dev.TrustedOrigins) == 0 || dev.TrustedOrigins[0] != "localhost:9000" {
		t.Errorf("dev TrustedOrigins = %v", dev.TrustedOrigins)
	}
	for _, origin := range dev.TrustedOrigins {
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			t.Errorf("TrustedOrigin %q should be host:port, not a URL", origin)
		}
	}
}

func TestCSRF_BlocksCrossSitePost(t *testing.T) {
	reached := false
	h := CSRF(DefaultCSRFConfig(testKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/wiki/Bar", strings.NewReader("action=submit"))
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if reached {
		t.Error("cross-site POST reached the handler")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCSRF_AllowsSafeMethods(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/wiki/Bar", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_AllowsSameOriginPost(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testKey, false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/wiki/Bar", strings.NewReader("action=submit"))
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
