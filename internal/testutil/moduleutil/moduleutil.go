// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package moduleutil provides module-specific test helpers.
package moduleutil

import (
	"database/sql"
	"testing"

	"github.com/olegiv/ocms-pagelang/internal/config"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/service"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/testutil"
)

// RunMigrations runs all migrations up for the given module.
func RunMigrations(t *testing.T, db *sql.DB, migrations []module.Migration) {
	t.Helper()
	for _, mig := range migrations {
		if err := mig.Up(db); err != nil {
			t.Fatalf("migration %d up: %v", mig.Version, err)
		}
	}
}

// RunMigrationsDown rolls back all migrations for the given module in
// reverse order.
func RunMigrationsDown(t *testing.T, db *sql.DB, migrations []module.Migration) {
	t.Helper()
	for i := len(migrations) - 1; i >= 0; i-- {
		if err := migrations[i].Down(db); err != nil {
			t.Fatalf("migration %d down: %v", migrations[i].Version, err)
		}
	}
}

// TestConfig returns a configuration with the page language defaults.
func TestConfig() *config.Config {
	return &config.Config{
		Env:                 "test",
		LanguageCode:        "en",
		AlwaysShowLanguages: []string{"en"},
	}
}

// TestModuleContext creates a module.Context with a store and a log
// service on db. Returns the context and the hook registry for verifying
// hook behavior.
func TestModuleContext(t *testing.T, db *sql.DB) (*module.Context, *module.HookRegistry) {
	t.Helper()

	logger := testutil.TestLogger()
	hooks := module.NewHookRegistry(logger)
	return &module.Context{
		DB:     db,
		Store:  store.New(db),
		Logger: logger,
		Config: TestConfig(),
		Hooks:  hooks,
		Logs:   service.NewLogService(db),
	}, hooks
}
