// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

// Edit attributes set by the Interceptor.
const (
	attrChange    = "pagelang.change"
	attrSubmitted = "pagelang.submitted"
)

// Change is the language change captured from an edit form. New is empty
// when the language stays as it is.
type Change struct {
	Old string
	New string
}

// Changed reports whether the edit changes the page language.
func (c Change) Changed() bool {
	return c.New != "" && c.New != c.Old
}

// Interceptor captures the submitted page language during form import.
type Interceptor struct {
	settings Settings
}

// NewInterceptor creates an Interceptor.
func NewInterceptor(settings Settings) *Interceptor {
	return &Interceptor{settings: settings}
}

// ImportFormData compares the page's current language with the submitted
// one and records the outcome on edit. An absent or empty submission
// leaves the language unchanged.
func (i *Interceptor) ImportFormData(edit *wiki.EditPage, form url.Values) error {
	change := Change{Old: edit.Title.PageLanguage()}

	submitted := strings.TrimSpace(form.Get(FieldName))
	if submitted != "" {
		edit.SetAttr(attrSubmitted, submitted)
	}
	if submitted != "" && submitted != change.Old {
		if i.settings.Validate && !i18n.IsKnownLanguage(submitted) {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, submitted)
		}
		change.New = submitted
	}

	edit.SetAttr(attrChange, change)
	return nil
}

// ChangeOf returns the change recorded on edit. ok is false when nothing
// was recorded or the language stays the same.
func ChangeOf(edit *wiki.EditPage) (change Change, ok bool) {
	v, found := edit.Attr(attrChange)
	if !found {
		return Change{}, false
	}
	change, _ = v.(Change)
	return change, change.Changed()
}

// SubmittedLanguage returns the code submitted with edit's form, including
// a rejected one, so a re-rendered form can keep it selected.
func SubmittedLanguage(edit *wiki.EditPage) (string, bool) {
	v, found := edit.Attr(attrSubmitted)
	if !found {
		return "", false
	}
	code, _ := v.(string)
	return code, code != ""
}
