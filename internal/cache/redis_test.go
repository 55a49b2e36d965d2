// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("PAGELANG_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: PAGELANG_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisCache_Basic(t *testing.T) {
	url := skipIfNoRedis(t)

	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "pagelang-test:"
	opts.DefaultTTL = time.Minute

	c, err := NewRedisCache(opts)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	_ = c.DeleteByPrefix(ctx, "")

	if err := c.Set(ctx, "render:1:en", []byte("a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = c.Set(ctx, "render:12:en", []byte("b"), 0)

	got, err := c.Get(ctx, "render:1:en")
	if err != nil || string(got) != "a" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := c.DeleteByPrefix(ctx, "render:1:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if _, err := c.Get(ctx, "render:1:en"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after delete error = %v, want ErrCacheMiss", err)
	}
	if _, err := c.Get(ctx, "render:12:en"); err != nil {
		t.Errorf("render:12:en should survive: %v", err)
	}

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if s := c.Stats(); s.Hits < 2 || s.Misses < 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("expected error for empty URL")
	}
}
