// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Log types and actions.
const (
	LogTypePageLang   = "pagelang"
	LogActionPageLang = "pagelang"

	LogTypeSystem = "system"
)

// Parameter keys of pagelang log entries. The numeric prefix is the
// message parameter position used when formatting the entry.
const (
	LogParamOldLanguage = "4::oldlanguage"
	LogParamNewLanguage = "5::newlanguage"
)

// LogTarget identifies the page a log entry is about.
type LogTarget struct {
	PageID    int64  `json:"page_id"`
	Namespace int    `json:"namespace"`
	Title     string `json:"title"`
}

// LogEntry is an audit log record. It is immutable once inserted;
// only its published flag changes afterwards.
type LogEntry struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Action    string            `json:"action"`
	Performer User              `json:"performer"`
	Target    LogTarget         `json:"target"`
	Params    map[string]string `json:"params"`
	Published bool              `json:"published"`
	Timestamp time.Time         `json:"timestamp"`
}

// Param returns a parameter by its short name ("oldlanguage") or full key
// ("4::oldlanguage").
func (e LogEntry) Param(name string) string {
	if v, ok := e.Params[name]; ok {
		return v
	}
	for key, v := range e.Params {
		if _, short, ok := strings.Cut(key, "::"); ok && short == name {
			return v
		}
	}
	return ""
}
