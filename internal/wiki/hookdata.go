// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wiki

import (
	"html/template"
	"net/url"

	"github.com/olegiv/ocms-pagelang/internal/store"
)

// ImportFormData is passed to module.HookEditImportFormData.
type ImportFormData struct {
	Edit *EditPage
	Form url.Values
}

// FormFieldsData is passed to module.HookEditFormFields. Handlers append
// HTML blocks to Fields; they are rendered below the text box.
type FormFieldsData struct {
	Edit   *EditPage
	Fields []template.HTML
}

// AfterSaveData is passed to module.HookEditAfterSave. For successful
// saves Queries is bound to the open save transaction; otherwise it is
// bound to the database.
type AfterSaveData struct {
	Edit    *EditPage
	Status  SaveStatus
	Queries *store.Queries
}

// LanguageLinksData is passed to module.HookLanguageLinks. Links holds
// "code:target" strings; handlers may replace it. Flags is carried for
// handlers that mark links and is rendered as CSS classes.
type LanguageLinksData struct {
	Title *Title
	Links []string
	Flags []string
}
