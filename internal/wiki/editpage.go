// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wiki

import (
	"github.com/google/uuid"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// SaveStatus is the outcome of an edit attempt.
type SaveStatus int

const (
	// StatusSaved means an existing page got new text.
	StatusSaved SaveStatus = iota
	// StatusCreated means the page was created.
	StatusCreated
	// StatusUnchanged means the text was submitted unchanged (null edit).
	StatusUnchanged
	// StatusBlankPage means creating a page with empty text was refused.
	StatusBlankPage
)

// OK reports whether the save went through.
func (s SaveStatus) OK() bool {
	return s == StatusSaved || s == StatusCreated || s == StatusUnchanged
}

func (s SaveStatus) String() string {
	switch s {
	case StatusSaved:
		return "saved"
	case StatusCreated:
		return "created"
	case StatusUnchanged:
		return "unchanged"
	case StatusBlankPage:
		return "blank page"
	default:
		return "unknown"
	}
}

// EditPage is the state of one edit request. Modules keep per-edit state
// in its attributes between hooks.
type EditPage struct {
	ID     uuid.UUID
	Title  *Title
	User   model.User
	UILang string
	Text   string
	Round  *store.Round

	attrs map[string]any
}

// Attr returns a module attribute.
func (e *EditPage) Attr(key string) (any, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// SetAttr stores a module attribute.
func (e *EditPage) SetAttr(key string, value any) {
	if e.attrs == nil {
		e.attrs = make(map[string]any)
	}
	e.attrs[key] = value
}
