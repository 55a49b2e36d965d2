// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// knownLanguages are the content language codes a page can be set to.
var knownLanguages = []string{
	"af", "ar", "az", "be", "bg", "bn", "bs", "ca", "cs", "cy",
	"da", "de", "el", "en", "eo", "es", "et", "eu", "fa", "fi",
	"fr", "ga", "gl", "he", "hi", "hr", "hu", "hy", "id", "is",
	"it", "ja", "ka", "kk", "ko", "la", "lt", "lv", "mk", "ms",
	"nb", "nl", "nn", "pl", "pt", "pt-br", "ro", "ru", "sk", "sl",
	"sq", "sr", "sv", "sw", "ta", "th", "tr", "uk", "ur", "uz",
	"vi", "zh", "zh-hans", "zh-hant",
}

// KnownLanguages returns the known content language codes, sorted.
func KnownLanguages() []string {
	codes := slices.Clone(knownLanguages)
	slices.Sort(codes)
	return codes
}

// IsKnownLanguage reports whether code is a known content language code.
func IsKnownLanguage(code string) bool {
	return slices.Contains(knownLanguages, strings.ToLower(code))
}

// LanguageName returns the name of the language code in the display
// language. Unknown display languages fall back to English, and codes
// without a name fall back to the code itself.
func LanguageName(code, displayLang string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	if namer := namerFor(displayLang); namer != nil {
		if name := namer.Name(tag); name != "" {
			return name
		}
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// LanguageNames returns the names of all known languages in the display
// language, keyed by code.
func LanguageNames(displayLang string) map[string]string {
	names := make(map[string]string, len(knownLanguages))
	for _, code := range knownLanguages {
		names[code] = LanguageName(code, displayLang)
	}
	return names
}

// SelfName returns the name of a language in that language ("Deutsch").
func SelfName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

func namerFor(displayLang string) display.Namer {
	tag, err := language.Parse(displayLang)
	if err != nil {
		return nil
	}
	return display.Languages(tag)
}
