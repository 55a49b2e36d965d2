// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/middleware"
	"github.com/olegiv/ocms-pagelang/internal/model"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// LogItem is one pagelang log entry as served by GET /log/pagelang.
type LogItem struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Performer   string    `json:"performer"`
	Page        string    `json:"page"`
	OldLanguage string    `json:"old_language"`
	NewLanguage string    `json:"new_language"`
	Message     string    `json:"message"`
}

// logItem formats entry in the display language lang.
func logItem(entry model.LogEntry, lang string) LogItem {
	page := model.PrefixedTitle(entry.Target.Namespace, entry.Target.Title)
	oldLang := entry.Param(model.LogParamOldLanguage)
	newLang := entry.Param(model.LogParamNewLanguage)
	return LogItem{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp,
		Performer:   entry.Performer.Name,
		Page:        page,
		OldLanguage: oldLang,
		NewLanguage: newLang,
		Message: i18n.T(lang, "pagelang.log.changed",
			entry.Performer.Name, page,
			i18n.LanguageName(oldLang, lang), i18n.LanguageName(newLang, lang)),
	}
}

// handleLog handles GET /log/pagelang - lists published language changes,
// newest first. ?page= narrows the list to one prefixed title.
func (m *Module) handleLog(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetDisplayLanguage(r)

	limit := defaultLogLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLogLimit)
	}

	var pageID int64
	if prefixed := r.URL.Query().Get("page"); prefixed != "" {
		ns, text := model.SplitTitle(prefixed)
		page, err := m.ctx.Store.GetPageByTitle(r.Context(), ns, text)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			m.writeLog(w, lang, nil)
			return
		case err != nil:
			m.ctx.Logger.Error("failed to resolve log page", "page", prefixed, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		pageID = page.ID
	}

	entries, err := m.ctx.Logs.ListLogEntries(r.Context(), model.LogTypePageLang, pageID, limit)
	if err != nil {
		m.ctx.Logger.Error("failed to list pagelang log", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	m.writeLog(w, lang, entries)
}

func (m *Module) writeLog(w http.ResponseWriter, lang string, entries []model.LogEntry) {
	items := make([]LogItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, logItem(e, lang))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title": i18n.T(lang, "pagelang.log.title"),
		"items": items,
		"total": len(items),
	})
}
