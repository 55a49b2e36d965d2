// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		isDev    bool
		path     string
		wantHSTS bool
		wantCSP  bool
	}{
		{"production page", false, "/wiki/Bar", true, true},
		{"development page", true, "/wiki/Bar", false, true},
		{"excluded metrics", false, "/metrics", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(ok)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if got := w.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			csp := w.Header().Get("Content-Security-Policy")
			if (csp != "") != tt.wantCSP {
				t.Errorf("CSP = %q, want present=%v", csp, tt.wantCSP)
			}
			if tt.wantCSP {
				if !strings.HasPrefix(csp, "default-src 'self'; script-src 'none'") {
					t.Errorf("CSP order = %q", csp)
				}
				if w.Header().Get("X-Content-Type-Options") != "nosniff" {
					t.Error("missing X-Content-Type-Options")
				}
				if w.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
					t.Error("missing X-Frame-Options")
				}
			}
		})
	}
}
