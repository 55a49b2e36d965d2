// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package wiki

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/olegiv/ocms-pagelang/internal/cache"
	"github.com/olegiv/ocms-pagelang/internal/i18n"
	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/store"
)

// InterlanguageLink is a rendered interlanguage link.
type InterlanguageLink struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Target string `json:"target"`
	Href   string `json:"href"`
}

// PageView is everything needed to render a page.
type PageView struct {
	Title *Title
	Lang  model.Language
	Body  template.HTML
	Links []InterlanguageLink
	Flags []string
}

// View loads the page named prefixed, renders its body and computes its
// interlanguage links. Missing pages get an empty body.
func (h *Host) View(ctx context.Context, prefixed string) (*PageView, error) {
	q := store.New(h.db)
	title, err := h.LoadTitle(ctx, q, prefixed)
	if err != nil {
		return nil, err
	}

	view := &PageView{
		Title: title,
		Lang:  model.LanguageFor(title.PageLanguage()),
	}
	if title.Exists() {
		if view.Body, err = h.renderBody(ctx, title); err != nil {
			return nil, err
		}
	}

	links, flags, err := h.languageLinks(ctx, q, title)
	if err != nil {
		return nil, err
	}
	view.Links = links
	view.Flags = flags
	return view, nil
}

func (h *Host) callLanguageLinks(ctx context.Context, q *store.Queries, title *Title) (*LanguageLinksData, error) {
	rows, err := q.ListLangLinks(ctx, title.ArticleID())
	if err != nil {
		return nil, fmt.Errorf("loading language links: %w", err)
	}

	data := &LanguageLinksData{Title: title}
	for _, row := range rows {
		data.Links = append(data.Links, row.Lang+":"+row.Title)
	}

	if err := h.hooks.CallNoResult(ctx, module.HookLanguageLinks, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (h *Host) languageLinks(ctx context.Context, q *store.Queries, title *Title) ([]InterlanguageLink, []string, error) {
	data, err := h.callLanguageLinks(ctx, q, title)
	if err != nil {
		return nil, nil, err
	}

	links := make([]InterlanguageLink, 0, len(data.Links))
	for _, link := range data.Links {
		code, target, ok := strings.Cut(link, ":")
		if !ok || code == "" || target == "" {
			continue
		}
		links = append(links, InterlanguageLink{
			Code:   code,
			Name:   i18n.SelfName(code),
			Target: target,
			Href:   "/wiki/" + strings.ReplaceAll(target, " ", "_"),
		})
	}
	return links, data.Flags, nil
}

func (h *Host) renderBody(ctx context.Context, title *Title) (template.HTML, error) {
	page := title.page
	if h.renders != nil {
		if cached, ok := h.renders.Get(ctx, page.ID, title.PageLanguage(), page.Touched); ok {
			return cached.HTML, nil
		}
	}

	body, err := h.renderer.Markdown(page.Body)
	if err != nil {
		return "", fmt.Errorf("rendering %q: %w", title.Prefixed(), err)
	}

	if h.renders != nil {
		lang := model.LanguageFor(title.PageLanguage())
		if err := h.renders.Set(ctx, page.ID, cache.Rendered{
			HTML:    body,
			Lang:    lang.Code,
			Dir:     lang.Direction,
			Touched: page.Touched,
		}); err != nil {
			h.logger.Warn("failed to cache rendered page", "page_id", page.ID, "error", err)
		}
	}
	return body, nil
}
