// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pagelang lets editors set the content language of a page from
// the edit form. The chosen language is stored on the page, logged in the
// pagelang audit log, and shapes the interlanguage link list of the page.
package pagelang

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/metrics"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

// Hook priorities. The language links handler runs late so that other
// handlers see the host's links first.
const (
	priorityFormData  = 10
	priorityFields    = 10
	priorityAfterSave = 10
	priorityLinks     = 100
)

// Module implements the module.Module interface.
type Module struct {
	module.BaseModule
	ctx         *module.Context
	settings    Settings
	interceptor *Interceptor
	changes     *ChangeLogger
	updater     *Updater
}

// New creates a new instance of the pagelang module.
func New() *Module {
	return &Module{
		BaseModule: module.NewBaseModule(
			"pagelang",
			"1.0.0",
			"Per-page content language with logged changes and merged language links",
		),
	}
}

// Init initializes the module with the given context.
func (m *Module) Init(ctx *module.Context) error {
	if ctx.Logs == nil {
		return fmt.Errorf("pagelang: log service is required")
	}

	m.ctx = ctx
	m.settings = SettingsFromConfig(ctx.Config)
	m.interceptor = NewInterceptor(m.settings)
	m.changes = NewChangeLogger(ctx.Logs)
	m.updater = NewUpdater(m.changes, ctx.Logger)

	m.registerHooks()

	m.ctx.Logger.Info("pagelang module initialized",
		"always_show", m.settings.AlwaysShow,
		"default_language", m.settings.DefaultLanguage,
		"validate", m.settings.Validate,
	)
	return nil
}

// Shutdown performs cleanup when the module is shutting down.
func (m *Module) Shutdown() error {
	if m.ctx != nil {
		m.ctx.Logger.Info("pagelang module shutting down")
	}
	return nil
}

// Settings returns the effective settings. Valid after Init.
func (m *Module) Settings() Settings {
	return m.settings
}

// RegisterRoutes registers public routes for the module.
func (m *Module) RegisterRoutes(r chi.Router) {
	r.Get("/log/pagelang", m.handleLog)
}

// TemplateFuncs returns template functions provided by the module.
func (m *Module) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"languageName": i18n.LanguageName,
		"languageDir": func(code string) string {
			return model.LanguageFor(code).Direction
		},
	}
}

// Migrations returns database migrations for the module.
func (m *Module) Migrations() []module.Migration {
	return []module.Migration{
		{
			Version:     1,
			Description: "Index pagelang log entries by page",
			Up: func(db *sql.DB) error {
				_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_logging_type_page ON logging(log_type, page_id, id)`)
				return err
			},
			Down: func(db *sql.DB) error {
				_, err := db.Exec(`DROP INDEX IF EXISTS idx_logging_type_page`)
				return err
			},
		},
	}
}

func (m *Module) registerHooks() {
	m.ctx.Hooks.Register(module.HookEditImportFormData, module.HookHandler{
		Name:     "pagelang_import_form_data",
		Module:   m.Name(),
		Priority: priorityFormData,
		Fn:       m.onImportFormData,
	})
	m.ctx.Hooks.Register(module.HookEditFormFields, module.HookHandler{
		Name:     "pagelang_form_fields",
		Module:   m.Name(),
		Priority: priorityFields,
		Fn:       m.onFormFields,
	})
	m.ctx.Hooks.Register(module.HookEditAfterSave, module.HookHandler{
		Name:     "pagelang_after_save",
		Module:   m.Name(),
		Priority: priorityAfterSave,
		Fn:       m.onAfterSave,
	})
	m.ctx.Hooks.Register(module.HookLanguageLinks, module.HookHandler{
		Name:     "pagelang_language_links",
		Module:   m.Name(),
		Priority: priorityLinks,
		Fn:       m.onLanguageLinks,
	})
}

func (m *Module) onImportFormData(_ context.Context, data any) (any, error) {
	d, ok := data.(*wiki.ImportFormData)
	if !ok {
		return data, nil
	}
	return d, m.interceptor.ImportFormData(d.Edit, d.Form)
}

func (m *Module) onFormFields(_ context.Context, data any) (any, error) {
	d, ok := data.(*wiki.FormFieldsData)
	if !ok {
		return data, nil
	}

	field := BuildFormField(d.Edit.UILang, d.Edit.Title, m.settings)
	if code, ok := SubmittedLanguage(d.Edit); ok {
		field = field.Select(code)
	}
	html, err := RenderFormField(field, i18n.T(d.Edit.UILang, "pagelang.label"))
	if err != nil {
		return d, err
	}
	d.Fields = append(d.Fields, html)
	return d, nil
}

// onAfterSave applies the change captured by onImportFormData. The save
// status is not consulted beyond success: an unchanged text with a new
// language still changes the language.
func (m *Module) onAfterSave(ctx context.Context, data any) (any, error) {
	d, ok := data.(*wiki.AfterSaveData)
	if !ok || !d.Status.OK() {
		return data, nil
	}
	change, ok := ChangeOf(d.Edit)
	if !ok {
		return d, nil
	}
	return d, m.updater.SetLanguage(ctx, d.Edit, d.Queries, change)
}

func (m *Module) onLanguageLinks(_ context.Context, data any) (any, error) {
	d, ok := data.(*wiki.LanguageLinksData)
	if !ok {
		return data, nil
	}
	if !ShouldMerge(d.Title.Exists(), d.Title.Namespace) {
		metrics.RecordLinkMerge(false, 0)
		return d, nil
	}

	links := MergeLanguageLinks(MergeInput{
		Title:        d.Title.Text,
		PageLanguage: d.Title.PageLanguage(),
		HostLinks:    d.Links,
		AlwaysShow:   m.settings.AlwaysShow,
	})

	synthetic := 0
	for _, l := range links {
		if l.Synthetic {
			synthetic++
		}
	}
	metrics.RecordLinkMerge(true, synthetic)

	d.Links = FormatLinks(links)
	return d, nil
}
