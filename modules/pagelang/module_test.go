// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/store"
	"github.com/olegiv/ocms-pagelang/internal/testutil"
	"github.com/olegiv/ocms-pagelang/internal/testutil/moduleutil"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

var alice = model.User{ID: 1, Name: "Alice"}

type testEnv struct {
	db    *sql.DB
	ctx   *module.Context
	mod   *Module
	host  *wiki.Host
	hooks *module.HookRegistry
}

// newTestEnv wires the module into a wiki host with the given always-show
// languages.
func newTestEnv(t *testing.T, alwaysShow ...string) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	mctx, hooks := moduleutil.TestModuleContext(t, db)
	if len(alwaysShow) > 0 {
		mctx.Config.AlwaysShowLanguages = alwaysShow
	}

	m := New()
	moduleutil.RunMigrations(t, db, m.Migrations())
	require.NoError(t, m.Init(mctx))

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })

	host := wiki.New(wiki.Config{
		DB:              db,
		Hooks:           hooks,
		Renders:         cache.NewRenderCache(mem, time.Minute),
		Logger:          testutil.TestLogger(),
		DefaultLanguage: "en",
	})
	return &testEnv{db: db, ctx: mctx, mod: m, host: host, hooks: hooks}
}

// submit runs the full edit pipeline the way the edit handler does.
func (e *testEnv) submit(t *testing.T, title string, form url.Values) (wiki.SaveStatus, error) {
	t.Helper()
	ctx := context.Background()

	edit, err := e.host.Edit(ctx, title, alice, "en")
	require.NoError(t, err)
	if !form.Has(wiki.FormText) {
		form.Set(wiki.FormText, edit.Text)
	}
	if err := e.host.ImportFormData(ctx, edit, form); err != nil {
		return 0, err
	}
	return e.host.AttemptSave(ctx, edit)
}

func (e *testEnv) pageLang(t *testing.T, ns int, title string) string {
	t.Helper()
	p, err := store.New(e.db).GetPageByTitle(context.Background(), ns, title)
	require.NoError(t, err)
	return p.Lang
}

func (e *testEnv) pagelangLog(t *testing.T) []model.LogEntry {
	t.Helper()
	entries, err := e.ctx.Logs.ListLogEntries(context.Background(), model.LogTypePageLang, 0, 100)
	require.NoError(t, err)
	return entries
}

func TestModule_Metadata(t *testing.T) {
	m := New()
	assert.Equal(t, "pagelang", m.Name())
	assert.Equal(t, "1.0.0", m.Version())
	assert.NotEmpty(t, m.Description())
	assert.Len(t, m.Migrations(), 1)
	assert.Contains(t, m.TemplateFuncs(), "languageName")
}

func TestModule_InitRequiresLogService(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	mctx, _ := moduleutil.TestModuleContext(t, db)
	mctx.Logs = nil
	assert.Error(t, New().Init(mctx))
}

func TestModule_RegistersHooks(t *testing.T) {
	env := newTestEnv(t)

	for _, hook := range []string{
		module.HookEditImportFormData,
		module.HookEditFormFields,
		module.HookEditAfterSave,
		module.HookLanguageLinks,
	} {
		assert.Equal(t, 1, env.hooks.HandlerCount(hook), hook)
	}
	assert.Equal(t, []string{"en"}, env.mod.Settings().AlwaysShow)
}

func TestModule_MigrationsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	var n int
	row := env.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_logging_type_page'`)
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)

	moduleutil.RunMigrationsDown(t, env.db, env.mod.Migrations())
	row = env.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_logging_type_page'`)
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 0, n)
}

func TestModule_LanguageChange(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")

	status, err := env.submit(t, "Bar", url.Values{FieldName: {"fr"}})
	require.NoError(t, err)
	assert.Equal(t, wiki.StatusUnchanged, status)

	assert.Equal(t, "fr", env.pageLang(t, model.NamespaceMain, "Bar"))

	entries := env.pagelangLog(t)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, model.LogTypePageLang, entry.Type)
	assert.Equal(t, model.LogActionPageLang, entry.Action)
	assert.Equal(t, "Alice", entry.Performer.Name)
	assert.Equal(t, "Bar", entry.Target.Title)
	assert.Equal(t, model.NamespaceMain, entry.Target.Namespace)
	assert.Equal(t, "de", entry.Params[model.LogParamOldLanguage])
	assert.Equal(t, "fr", entry.Params[model.LogParamNewLanguage])
	assert.True(t, entry.Published)

	changes, err := store.New(env.db).ListRecentChanges(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, entry.ID, changes[0].LogID.Int64)
}

func TestModule_LanguageChangeWithTextEdit(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePage(t, env.db, model.NamespaceProject, "About", "en")

	status, err := env.submit(t, "Project:About", url.Values{
		wiki.FormText: {"Über uns"},
		FieldName:     {"de"},
	})
	require.NoError(t, err)
	assert.Equal(t, wiki.StatusSaved, status)

	p, err := store.New(env.db).GetPageByTitle(context.Background(), model.NamespaceProject, "About")
	require.NoError(t, err)
	assert.Equal(t, "de", p.Lang)
	assert.Equal(t, "Über uns", p.Body)
	assert.Len(t, env.pagelangLog(t), 1)
}

func TestModule_UnchangedSubmissionsDoNothing(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"same language", url.Values{FieldName: {"de"}}},
		{"empty language", url.Values{FieldName: {""}}},
		{"no language field", url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			before := testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")

			_, err := env.submit(t, "Bar", tt.form)
			require.NoError(t, err)

			after, err := store.New(env.db).GetPageByID(context.Background(), before.ID)
			require.NoError(t, err)
			assert.Equal(t, "de", after.Lang)
			assert.True(t, after.Touched.Equal(before.Touched), "page should not be touched")
			assert.Empty(t, env.pagelangLog(t))

			n, err := store.New(env.db).CountLogs(context.Background(), model.LogTypePageLang)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestModule_NewPageWithLanguage(t *testing.T) {
	env := newTestEnv(t)

	status, err := env.submit(t, "Fresh", url.Values{
		wiki.FormText: {"Привет"},
		FieldName:     {"ru"},
	})
	require.NoError(t, err)
	assert.Equal(t, wiki.StatusCreated, status)
	assert.Equal(t, "ru", env.pageLang(t, model.NamespaceMain, "Fresh"))

	entries := env.pagelangLog(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "en", entries[0].Params[model.LogParamOldLanguage])
	assert.Equal(t, "ru", entries[0].Params[model.LogParamNewLanguage])
	assert.NotZero(t, entries[0].Target.PageID)
}

func TestModule_BlankPageIgnored(t *testing.T) {
	env := newTestEnv(t)

	status, err := env.submit(t, "Empty", url.Values{
		wiki.FormText: {"  "},
		FieldName:     {"de"},
	})
	require.NoError(t, err)
	assert.Equal(t, wiki.StatusBlankPage, status)

	_, err = store.New(env.db).GetPageByTitle(context.Background(), model.NamespaceMain, "Empty")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Empty(t, env.pagelangLog(t))
}

func TestModule_ValidationRejectsUnknownCode(t *testing.T) {
	env := newTestEnv(t)
	env.ctx.Config.ValidateCodes = true
	m := New()
	env.hooks.UnregisterAll(env.mod.Name())
	require.NoError(t, m.Init(env.ctx))

	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")

	_, err := env.submit(t, "Bar", url.Values{FieldName: {"not-a-language"}})
	require.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Equal(t, "de", env.pageLang(t, model.NamespaceMain, "Bar"))
	assert.Empty(t, env.pagelangLog(t))
}

func TestModule_FormFieldsKeepSubmittedLanguage(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")
	ctx := context.Background()

	edit, err := env.host.Edit(ctx, "Bar", alice, "en")
	require.NoError(t, err)
	require.NoError(t, env.host.ImportFormData(ctx, edit, url.Values{FieldName: {"fr"}}))

	fields, err := env.host.FormFields(ctx, edit)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Contains(t, string(fields[0]), `<option value="fr" selected>`)
	assert.NotContains(t, string(fields[0]), `<option value="de" selected>`)
}

func TestModule_ChangeInvalidatesRenderCache(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")
	ctx := context.Background()

	first, err := env.host.View(ctx, "Bar")
	require.NoError(t, err)
	assert.Equal(t, "de", first.Lang.Code)

	_, err = env.submit(t, "Bar", url.Values{FieldName: {"he"}})
	require.NoError(t, err)

	second, err := env.host.View(ctx, "Bar")
	require.NoError(t, err)
	assert.Equal(t, "he", second.Lang.Code)
	assert.Equal(t, "rtl", second.Lang.Direction)
	assert.False(t, second.Title.Page().Touched.Before(first.Title.Page().Touched))
}

func TestModule_FormFields(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")
	ctx := context.Background()

	edit, err := env.host.Edit(ctx, "Bar", alice, "de")
	require.NoError(t, err)

	fields, err := env.host.FormFields(ctx, edit)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	html := string(fields[0])
	assert.Contains(t, html, `Seitensprache `)
	assert.Contains(t, html, `name="wplanguage"`)
	assert.Contains(t, html, `<option value="de" selected>de - Deutsch</option>`)
}

func TestModule_LanguageLinks(t *testing.T) {
	env := newTestEnv(t, "en", "de", "fr")
	ctx := context.Background()

	bar := testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")
	testutil.AddLangLinks(t, env.db, bar.ID, map[string]string{"fr": "Foo"})

	view, err := env.host.View(ctx, "Bar")
	require.NoError(t, err)

	var targets []string
	for _, l := range view.Links {
		targets = append(targets, l.Code+":"+l.Target)
	}
	assert.Equal(t, []string{"en:Bar/en", "de:Bar", "fr:Foo"}, targets)
	assert.Equal(t, "/wiki/Bar/en", view.Links[0].Href)
}

func TestModule_LanguageLinksPassThrough(t *testing.T) {
	env := newTestEnv(t, "en", "de", "fr")
	ctx := context.Background()

	user := testutil.CreatePage(t, env.db, model.NamespaceUser, "Alice", "de")
	testutil.AddLangLinks(t, env.db, user.ID, map[string]string{"it": "Alicia"})

	view, err := env.host.View(ctx, "User:Alice")
	require.NoError(t, err)
	require.Len(t, view.Links, 1)
	assert.Equal(t, "it", view.Links[0].Code)
	assert.Equal(t, "Alicia", view.Links[0].Target)

	missing, err := env.host.View(ctx, "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, missing.Links)
}

func TestModule_LanguageLinksAfterChange(t *testing.T) {
	env := newTestEnv(t, "en", "de", "fr")
	testutil.CreatePage(t, env.db, model.NamespaceMain, "Bar", "de")

	_, err := env.submit(t, "Bar", url.Values{FieldName: {"fr"}})
	require.NoError(t, err)

	view, err := env.host.View(context.Background(), "Bar")
	require.NoError(t, err)

	var targets []string
	for _, l := range view.Links {
		targets = append(targets, l.Code+":"+l.Target)
	}
	assert.Equal(t, []string{"en:Bar/en", "de:Bar/de", "fr:Bar"}, targets)
}
