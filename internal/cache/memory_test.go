// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want v", got)
	}

	// Returned slices are copies.
	got[0] = 'x'
	again, _ := c.Get(ctx, "k")
	if string(again) != "v" {
		t.Errorf("cached value mutated through returned slice: %q", again)
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(expired) error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "render:1:en", []byte("a"), 0)
	_ = c.Set(ctx, "render:1:de", []byte("b"), 0)
	_ = c.Set(ctx, "render:12:en", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "render:1:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	if _, err := c.Get(ctx, "render:1:en"); !errors.Is(err, ErrCacheMiss) {
		t.Error("render:1:en should be deleted")
	}
	if _, err := c.Get(ctx, "render:12:en"); err != nil {
		t.Errorf("render:12:en should survive: %v", err)
	}
}

func TestMemoryCache_MaxSize(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 2})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if c.Stats().Items != 2 {
		t.Errorf("Items = %d, want 2", c.Stats().Items)
	}

	// Overwriting an existing key is allowed when full.
	if err := c.Set(ctx, "a", []byte("9"), 0); err != nil {
		t.Fatalf("Set(existing): %v", err)
	}
	got, _ := c.Get(ctx, "a")
	if string(got) != "9" {
		t.Errorf("Get(a) = %q, want 9", got)
	}
}

func TestMemoryCache_StatsAndClose(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, CleanupInterval: time.Millisecond})
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "nope")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 || s.HitRate != 50 {
		t.Errorf("Stats = %+v", s)
	}

	if err := c.DeleteByPrefix(ctx, ""); err != nil {
		t.Fatalf("DeleteByPrefix(all): %v", err)
	}
	if c.Stats().Items != 0 {
		t.Error("DeleteByPrefix left items behind")
	}

	_ = c.Close()
	_ = c.Close()
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close error = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close error = %v, want ErrCacheClosed", err)
	}
}
