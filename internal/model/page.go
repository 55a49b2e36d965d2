// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Namespace numbers. Only the ones the wiki host uses are listed.
const (
	NamespaceMain    = 0
	NamespaceTalk    = 1
	NamespaceUser    = 2
	NamespaceProject = 4
	NamespaceHelp    = 12
)

// namespaceNames maps namespace numbers to their title prefixes.
var namespaceNames = map[int]string{
	NamespaceTalk:    "Talk",
	NamespaceUser:    "User",
	NamespaceProject: "Project",
	NamespaceHelp:    "Help",
}

// NamespaceName returns the title prefix for ns ("" for the main namespace).
func NamespaceName(ns int) string {
	return namespaceNames[ns]
}

// SplitTitle splits a prefixed title such as "Project:About" into its
// namespace and text. Unknown prefixes stay in the main namespace.
// Underscores are read as spaces.
func SplitTitle(prefixed string) (int, string) {
	prefixed = strings.TrimSpace(strings.ReplaceAll(prefixed, "_", " "))
	if prefix, text, ok := strings.Cut(prefixed, ":"); ok {
		for ns, name := range namespaceNames {
			if strings.EqualFold(prefix, name) {
				return ns, strings.TrimSpace(text)
			}
		}
	}
	return NamespaceMain, prefixed
}

// PrefixedTitle joins a namespace and title text ("Project:About").
func PrefixedTitle(ns int, text string) string {
	if name := NamespaceName(ns); name != "" {
		return name + ":" + text
	}
	return text
}

// TitleKey returns the URL form of a prefixed title (spaces as underscores).
func TitleKey(ns int, text string) string {
	return strings.ReplaceAll(PrefixedTitle(ns, text), " ", "_")
}
