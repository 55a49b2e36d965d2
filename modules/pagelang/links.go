// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"maps"
	"slices"
	"strings"

	"github.com/olegiv/ocms-pagelang/internal/model"
)

// LanguageLink is one interlanguage link. Target keeps the full
// "code:title" form the host uses.
type LanguageLink struct {
	Code      string
	Target    string
	Synthetic bool // points at a "<title>/<code>" subpage nobody linked
}

// MergeInput is everything the link merge depends on.
type MergeInput struct {
	Title        string   // page title text, without namespace
	PageLanguage string   // content language of the page
	HostLinks    []string // "code:target" links computed by the host
	AlwaysShow   []string // languages that must always be listed
}

// mergeNamespaces are the namespaces whose pages get merged links.
var mergeNamespaces = []int{model.NamespaceMain, model.NamespaceProject}

// ShouldMerge reports whether links of a page are merged at all. Other
// pages keep the host's links untouched.
func ShouldMerge(exists bool, namespace int) bool {
	return exists && slices.Contains(mergeNamespaces, namespace)
}

// MergeLanguageLinks builds the link list of a page from the always-show
// languages. The page's own language links to the page itself, other
// languages adopt a host link with a matching "code:" prefix (the last one
// wins), and languages without one get a "code:title/code" link. Host
// links for languages outside the always-show list are dropped. The
// result is sorted by code, with "en" moved to the front when present.
func MergeLanguageLinks(in MergeInput) []LanguageLink {
	merged := make(map[string]LanguageLink, len(in.AlwaysShow))

	missing := make([]string, 0, len(in.AlwaysShow))
	for _, code := range in.AlwaysShow {
		if code == "" || slices.Contains(missing, code) {
			continue
		}
		missing = append(missing, code)
	}

	if i := slices.Index(missing, in.PageLanguage); i >= 0 {
		missing = slices.Delete(missing, i, i+1)
		merged[in.PageLanguage] = LanguageLink{Code: in.PageLanguage, Target: in.PageLanguage + ":" + in.Title}
	}

	missing = slices.DeleteFunc(missing, func(code string) bool {
		prefix := code + ":"
		found := false
		for _, link := range in.HostLinks {
			if strings.HasPrefix(link, prefix) {
				merged[code] = LanguageLink{Code: code, Target: link}
				found = true
			}
		}
		return found
	})

	for _, code := range missing {
		merged[code] = LanguageLink{Code: code, Target: code + ":" + in.Title + "/" + code, Synthetic: true}
	}

	links := slices.Collect(maps.Values(merged))
	slices.SortFunc(links, func(a, b LanguageLink) int {
		return strings.Compare(a.Code, b.Code)
	})

	if i := slices.IndexFunc(links, func(l LanguageLink) bool { return l.Code == "en" }); i > 0 {
		en := links[i]
		copy(links[1:i+1], links[:i])
		links[0] = en
	}
	return links
}

// FormatLinks returns the targets of links in order.
func FormatLinks(links []LanguageLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Target
	}
	return out
}
