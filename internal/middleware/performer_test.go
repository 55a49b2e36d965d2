// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/testutil"
)

func TestPerformer(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	mw := Performer(db, testutil.TestLogger())
	run := func(header string) (model.User, int) {
		var got model.User
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUser(r)
		}))
		req := httptest.NewRequest(http.MethodGet, "/wiki/Bar", nil)
		req.RemoteAddr = "192.0.2.7:51234"
		if header != "" {
			req.Header.Set(ForwardedUserHeader, header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return got, w.Code
	}

	t.Run("anonymous", func(t *testing.T) {
		u, code := run("")
		if code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if !u.IsAnonymous() || u.Name != "192.0.2.7" {
			t.Errorf("user = %+v, want anonymous 192.0.2.7", u)
		}
	})

	t.Run("registered on first sight", func(t *testing.T) {
		first, _ := run("Alice")
		if first.IsAnonymous() || first.Name != "Alice" {
			t.Fatalf("user = %+v, want registered Alice", first)
		}
		second, _ := run(" Alice ")
		if second.ID != first.ID {
			t.Errorf("second request ID = %d, want %d", second.ID, first.ID)
		}
		stored, err := store.New(db).GetUserByName(context.Background(), "Alice")
		if err != nil || stored.ID != first.ID {
			t.Errorf("stored user = %+v, %v", stored, err)
		}
	})

	t.Run("overlong name is anonymous", func(t *testing.T) {
		u, _ := run(strings.Repeat("x", maxUserNameLength+1))
		if !u.IsAnonymous() {
			t.Errorf("user = %+v, want anonymous", u)
		}
	})
}

func TestGetUser_NoMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:80"
	u := GetUser(req)
	if !u.IsAnonymous() || u.Name != "198.51.100.1" {
		t.Errorf("GetUser() = %+v", u)
	}
}
