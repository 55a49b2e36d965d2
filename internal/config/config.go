// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PAGELANG_DB_PATH" envDefault:"./data/pagelang.db"`
	CSRFKey    string `env:"PAGELANG_CSRF_KEY,required"`
	ServerHost string `env:"PAGELANG_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PAGELANG_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PAGELANG_ENV" envDefault:"development"`
	LogLevel   string `env:"PAGELANG_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"PAGELANG_REDIS_URL"`                          // Optional Redis URL for shared render cache
	CachePrefix  string `env:"PAGELANG_CACHE_PREFIX" envDefault:"pagelang:"` // Redis key prefix
	CacheTTL     int    `env:"PAGELANG_CACHE_TTL" envDefault:"3600"`         // Default cache TTL in seconds
	CacheMaxSize int    `env:"PAGELANG_CACHE_MAX_SIZE" envDefault:"10000"`   // Max memory cache entries

	// Page language settings
	LanguageCode        string   `env:"PAGELANG_LANGUAGE_CODE" envDefault:"en"`                                // Site-wide default content language
	AlwaysShowLanguages []string `env:"PAGELANG_ALWAYS_SHOW_LANGUAGES" envSeparator:"," envDefault:"en"`       // Languages always listed in interlanguage links
	ValidateCodes       bool     `env:"PAGELANG_VALIDATE_CODES" envDefault:"false"`                            // Reject unknown submitted language codes

	// Modules
	DisabledModules []string `env:"PAGELANG_DISABLED_MODULES" envSeparator:","` // Module names stored as inactive at startup

	// Recent changes retention
	RCMaxAgeDays    int    `env:"PAGELANG_RC_MAX_AGE_DAYS" envDefault:"90"`          // Days recent changes rows are kept, 0 keeps them forever
	RCPruneSchedule string `env:"PAGELANG_RC_PRUNE_SCHEDULE" envDefault:"0 3 * * *"` // Cron schedule of the prune job

	// Edit rate limiting
	EditRateLimit float64 `env:"PAGELANG_EDIT_RATE_LIMIT" envDefault:"1"`  // Edit submissions per second per client, 0 disables
	EditRateBurst int     `env:"PAGELANG_EDIT_RATE_BURST" envDefault:"10"` // Burst size for edit submissions

	// Seeding configuration
	DoSeed bool `env:"PAGELANG_DO_SEED" envDefault:"false"` // Seed a main page and a project page
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// RCMaxAge returns the recent changes retention period.
func (c Config) RCMaxAge() time.Duration {
	return time.Duration(c.RCMaxAgeDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinCSRFKeyLength is the minimum required length for the CSRF key.
const MinCSRFKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.CSRFKey) < MinCSRFKeyLength {
		return nil, fmt.Errorf("PAGELANG_CSRF_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure key with: openssl rand -base64 32",
			MinCSRFKeyLength, len(cfg.CSRFKey))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.CSRFKey == weak {
			return nil, fmt.Errorf("PAGELANG_CSRF_KEY is a known default value and must not be used; " +
				"generate a secure key with: openssl rand -base64 32")
		}
	}

	if cfg.RCMaxAgeDays < 0 {
		return nil, fmt.Errorf("PAGELANG_RC_MAX_AGE_DAYS must not be negative, got %d", cfg.RCMaxAgeDays)
	}
	if cfg.EditRateLimit < 0 || cfg.EditRateBurst < 0 {
		return nil, fmt.Errorf("PAGELANG_EDIT_RATE_LIMIT and PAGELANG_EDIT_RATE_BURST must not be negative")
	}

	cfg.LanguageCode = strings.TrimSpace(cfg.LanguageCode)
	if err := validateCode(cfg.LanguageCode); err != nil {
		return nil, fmt.Errorf("PAGELANG_LANGUAGE_CODE: %w", err)
	}

	codes := make([]string, 0, len(cfg.AlwaysShowLanguages))
	for _, code := range cfg.AlwaysShowLanguages {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if err := validateCode(code); err != nil {
			return nil, fmt.Errorf("PAGELANG_ALWAYS_SHOW_LANGUAGES: %w", err)
		}
		codes = append(codes, code)
	}
	cfg.AlwaysShowLanguages = codes

	disabled := make([]string, 0, len(cfg.DisabledModules))
	for _, name := range cfg.DisabledModules {
		if name = strings.TrimSpace(name); name != "" {
			disabled = append(disabled, name)
		}
	}
	cfg.DisabledModules = disabled

	return cfg, nil
}

// validateCode checks that code is a well-formed BCP 47 tag.
func validateCode(code string) error {
	if code == "" {
		return fmt.Errorf("empty language code")
	}
	if _, err := language.Parse(code); err != nil {
		return fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return nil
}
