// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wiki

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// FormText is the form field holding the page text.
const FormText = "wpTextbox1"

// ErrEmptyTitle is returned for edits without a page title.
var ErrEmptyTitle = errors.New("empty page title")

// Edit starts an edit of the page named prefixed on behalf of user.
func (h *Host) Edit(ctx context.Context, prefixed string, user model.User, uiLang string) (*EditPage, error) {
	title, err := h.LoadTitle(ctx, store.New(h.db), prefixed)
	if err != nil {
		return nil, err
	}
	if title.Text == "" {
		return nil, ErrEmptyTitle
	}
	return &EditPage{
		ID:     uuid.New(),
		Title:  title,
		User:   user,
		UILang: uiLang,
		Text:   title.page.Body,
		Round:  store.NewRound(h.db),
	}, nil
}

// ImportFormData reads a submitted edit form into e and lets modules
// read their own fields.
func (h *Host) ImportFormData(ctx context.Context, e *EditPage, form url.Values) error {
	e.Text = strings.ReplaceAll(form.Get(FormText), "\r\n", "\n")
	return h.hooks.CallNoResult(ctx, module.HookEditImportFormData, &ImportFormData{Edit: e, Form: form})
}

// FormFields collects the extra HTML blocks modules add to the edit form.
func (h *Host) FormFields(ctx context.Context, e *EditPage) ([]template.HTML, error) {
	data := &FormFieldsData{Edit: e}
	if err := h.hooks.CallNoResult(ctx, module.HookEditFormFields, data); err != nil {
		return nil, err
	}
	return data.Fields, nil
}

// AttemptSave stores the text of e. Successful saves fire the after-save
// hook inside the save transaction; work that hook handlers queue on
// e.Round runs once the transaction commits. Refused saves fire the hook
// outside any transaction with a failed status.
func (h *Host) AttemptSave(ctx context.Context, e *EditPage) (SaveStatus, error) {
	if !e.Title.Exists() && strings.TrimSpace(e.Text) == "" {
		status := StatusBlankPage
		err := h.hooks.CallNoResult(ctx, module.HookEditAfterSave, &AfterSaveData{
			Edit:    e,
			Status:  status,
			Queries: store.New(h.db),
		})
		return status, err
	}

	var status SaveStatus
	err := e.Round.WithTx(ctx, func(q *store.Queries) error {
		var err error
		status, err = h.saveText(ctx, q, e)
		if err != nil {
			return err
		}
		return h.hooks.CallNoResult(ctx, module.HookEditAfterSave, &AfterSaveData{
			Edit:    e,
			Status:  status,
			Queries: q,
		})
	})
	if err != nil {
		return status, fmt.Errorf("saving %q: %w", e.Title.Prefixed(), err)
	}

	if err := e.Title.reload(ctx, store.New(h.db)); err != nil {
		return status, err
	}

	h.logger.Info("page saved",
		"title", e.Title.Prefixed(),
		"page_id", e.Title.ArticleID(),
		"status", status.String(),
		"user", e.User.Name,
		"edit_id", e.ID.String(),
	)
	return status, nil
}

func (h *Host) saveText(ctx context.Context, q *store.Queries, e *EditPage) (SaveStatus, error) {
	now := time.Now()

	if !e.Title.Exists() {
		p, err := q.CreatePage(ctx, store.CreatePageParams{
			Namespace: e.Title.Namespace,
			Title:     e.Title.Text,
			Body:      e.Text,
			Lang:      e.Title.PageLanguage(),
			Now:       now,
		})
		if err != nil {
			return 0, fmt.Errorf("creating page: %w", err)
		}
		e.Title.page = p
		return StatusCreated, nil
	}

	if e.Text == e.Title.page.Body {
		return StatusUnchanged, nil
	}

	if err := q.UpdatePageBody(ctx, store.UpdatePageBodyParams{
		ID:   e.Title.page.ID,
		Body: e.Text,
		Now:  now,
	}); err != nil {
		return 0, fmt.Errorf("updating page text: %w", err)
	}
	e.Title.page.Body = e.Text
	e.Title.page.Touched = now
	return StatusSaved, nil
}
