// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"slices"

	"github.com/olegiv/ocms-pagelang/internal/config"
)

// Settings holds the module configuration.
type Settings struct {
	// AlwaysShow lists the languages every merged link list contains.
	AlwaysShow []string
	// DefaultLanguage is the site content language.
	DefaultLanguage string
	// Validate rejects submitted codes that are not known languages.
	Validate bool
}

func defaultSettings() Settings {
	return Settings{
		AlwaysShow:      []string{"en"},
		DefaultLanguage: "en",
	}
}

// SettingsFromConfig reads the module settings from cfg. Unset values
// keep their defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := defaultSettings()
	if cfg == nil {
		return s
	}
	if len(cfg.AlwaysShowLanguages) > 0 {
		s.AlwaysShow = slices.Clone(cfg.AlwaysShowLanguages)
	}
	if cfg.LanguageCode != "" {
		s.DefaultLanguage = cfg.LanguageCode
	}
	s.Validate = cfg.ValidateCodes
	return s
}
