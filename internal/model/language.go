// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Language is a content language a page can be written in.
type Language struct {
	Code      string `json:"code"`      // BCP 47: en, de, pt-br
	Direction string `json:"direction"` // ltr, rtl
}

// IsRTL returns true if the language is right-to-left.
func (l Language) IsRTL() bool {
	return l.Direction == DirectionRTL
}

// rtlCodes lists the right-to-left content languages.
var rtlCodes = map[string]bool{
	"ar": true, "fa": true, "he": true, "ur": true, "yi": true, "ps": true, "ckb": true,
}

// LanguageFor returns the Language for a code, with its text direction.
func LanguageFor(code string) Language {
	if rtlCodes[code] {
		return Language{Code: code, Direction: DirectionRTL}
	}
	return Language{Code: code, Direction: DirectionLTR}
}
