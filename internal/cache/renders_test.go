// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestRenderCache(t *testing.T) {
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = backend.Close() }()
	rc := NewRenderCache(backend, 0)
	ctx := context.Background()

	touched := time.Now()
	if err := rc.Set(ctx, 1, Rendered{HTML: "<p>en</p>", Lang: "en", Dir: "ltr", Touched: touched}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = rc.Set(ctx, 1, Rendered{HTML: "<p>de</p>", Lang: "de", Touched: touched})
	_ = rc.Set(ctx, 12, Rendered{HTML: "<p>other</p>", Lang: "en", Touched: touched})

	got, ok := rc.Get(ctx, 1, "en", touched)
	if !ok || got.HTML != "<p>en</p>" || got.Dir != "ltr" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	// A page touched after rendering makes the copy stale.
	if _, ok := rc.Get(ctx, 1, "en", touched.Add(time.Second)); ok {
		t.Error("stale rendering should be a miss")
	}

	if err := rc.InvalidatePage(ctx, 1); err != nil {
		t.Fatalf("InvalidatePage: %v", err)
	}
	if _, ok := rc.Get(ctx, 1, "en", touched); ok {
		t.Error("en rendering should be invalidated")
	}
	if _, ok := rc.Get(ctx, 1, "de", touched); ok {
		t.Error("de rendering should be invalidated")
	}
	if _, ok := rc.Get(ctx, 12, "en", touched); !ok {
		t.Error("page 12 rendering should survive invalidation of page 1")
	}
}
