// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the wiki front end.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/middleware"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
	"github.com/olegiv/ocms-pagelang/web"
)

// MainPage is the title served at the site root.
const MainPage = "Main_Page"

// Page actions.
const (
	actionView   = "view"
	actionEdit   = "edit"
	actionSubmit = "submit"
)

// WikiHandler serves page views, edit forms and edit submissions.
type WikiHandler struct {
	host   *wiki.Host
	tmpl   *template.Template
	logger *slog.Logger
}

// NewWikiHandler parses the page templates. funcs are added to the
// template functions, typically the ones modules provide.
func NewWikiHandler(host *wiki.Host, logger *slog.Logger, funcs template.FuncMap) (*WikiHandler, error) {
	all := template.FuncMap{
		"t":            i18n.T,
		"languageName": i18n.LanguageName,
	}
	maps.Copy(all, funcs)

	tmpl, err := template.New("wiki").Funcs(all).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &WikiHandler{host: host, tmpl: tmpl, logger: logger}, nil
}

// Routes mounts the wiki routes on r.
func (h *WikiHandler) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, pageURL(MainPage), http.StatusFound)
	})
	r.Get("/wiki/*", h.Page)
	r.Post("/wiki/*", h.Submit)
}

type viewData struct {
	UILang  string
	Heading string
	EditURL string
	Exists  bool
	Lang    model.Language
	Body    template.HTML
	Links   []wiki.InterlanguageLink
}

type editData struct {
	UILang    string
	Heading   string
	ActionURL string
	Lang      model.Language
	Text      string
	Fields    []template.HTML
	Error     string
}

// Page handles GET /wiki/{title}. ?action=edit shows the edit form.
func (h *WikiHandler) Page(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "*")
	if strings.TrimSpace(title) == "" {
		http.Redirect(w, r, pageURL(MainPage), http.StatusFound)
		return
	}

	switch action := r.URL.Query().Get("action"); action {
	case "", actionView:
		h.view(w, r, title)
	case actionEdit:
		h.editForm(w, r, title)
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
	}
}

func (h *WikiHandler) view(w http.ResponseWriter, r *http.Request, title string) {
	uiLang := middleware.GetDisplayLanguage(r)

	pv, err := h.host.View(r.Context(), title)
	if err != nil {
		h.serverError(w, "failed to view page", err, "title", title)
		return
	}

	code := http.StatusOK
	if !pv.Title.Exists() {
		code = http.StatusNotFound
	}
	h.render(w, code, "view", viewData{
		UILang:  uiLang,
		Heading: pv.Title.Prefixed(),
		EditURL: pageURL(pv.Title.Key()) + "?action=" + actionEdit,
		Exists:  pv.Title.Exists(),
		Lang:    pv.Lang,
		Body:    pv.Body,
		Links:   pv.Links,
	})
}

func (h *WikiHandler) editForm(w http.ResponseWriter, r *http.Request, title string) {
	e, err := h.host.Edit(r.Context(), title, middleware.GetUser(r), middleware.GetDisplayLanguage(r))
	if err != nil {
		h.editError(w, err, title)
		return
	}
	h.renderEdit(w, r, http.StatusOK, e, "")
}

// Submit handles POST /wiki/{title} with action=submit. A successful save
// redirects to the page view.
func (h *WikiHandler) Submit(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "*")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("action") != actionSubmit {
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	uiLang := middleware.GetDisplayLanguage(r)

	e, err := h.host.Edit(ctx, title, middleware.GetUser(r), uiLang)
	if err != nil {
		h.editError(w, err, title)
		return
	}

	if err := h.host.ImportFormData(ctx, e, r.PostForm); err != nil {
		h.logger.Info("edit form rejected", "title", e.Title.Prefixed(), "error", err)
		h.renderEdit(w, r, http.StatusBadRequest, e, i18n.T(uiLang, "edit.invalid", err.Error()))
		return
	}

	status, err := h.host.AttemptSave(ctx, e)
	if err != nil {
		h.serverError(w, "failed to save page", err, "title", e.Title.Prefixed(), "edit_id", e.ID.String())
		return
	}
	if !status.OK() {
		h.renderEdit(w, r, http.StatusBadRequest, e, i18n.T(uiLang, "edit.blank"))
		return
	}

	http.Redirect(w, r, pageURL(e.Title.Key()), http.StatusSeeOther)
}

func (h *WikiHandler) renderEdit(w http.ResponseWriter, r *http.Request, code int, e *wiki.EditPage, errMsg string) {
	fields, err := h.host.FormFields(r.Context(), e)
	if err != nil {
		h.serverError(w, "failed to build edit form", err, "title", e.Title.Prefixed())
		return
	}

	heading := "edit.title"
	if !e.Title.Exists() {
		heading = "edit.create"
	}
	h.render(w, code, "edit", editData{
		UILang:    e.UILang,
		Heading:   i18n.T(e.UILang, heading, e.Title.Prefixed()),
		ActionURL: pageURL(e.Title.Key()),
		Lang:      model.LanguageFor(e.Title.PageLanguage()),
		Text:      e.Text,
		Fields:    fields,
		Error:     errMsg,
	})
}

func (h *WikiHandler) editError(w http.ResponseWriter, err error, title string) {
	if errors.Is(err, wiki.ErrEmptyTitle) {
		http.Error(w, "Bad Request - empty title", http.StatusBadRequest)
		return
	}
	h.serverError(w, "failed to start edit", err, "title", title)
}

// render executes a template into a buffer so that template errors still
// produce a clean 500.
func (h *WikiHandler) render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.serverError(w, "render error", err, "template", name)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (h *WikiHandler) serverError(w http.ResponseWriter, msg string, err error, args ...any) {
	h.logger.Error(msg, append(args, "error", err)...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// pageURL returns the path of a title key, escaping each segment but
// keeping subpage slashes.
func pageURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/wiki/" + strings.Join(segments, "/")
}
