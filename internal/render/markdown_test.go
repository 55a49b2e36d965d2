// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	r := New()

	tests := []struct {
		name        string
		src         string
		contains    []string
		notContains []string
	}{
		{
			name:     "heading and paragraph",
			src:      "# Title\n\nHello *world*",
			contains: []string{"<h1", "Title</h1>", "<em>world</em>"},
		},
		{
			name:        "script stripped",
			src:         "hi <script>alert(1)</script>",
			notContains: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Markdown(tt.src)
			if err != nil {
				t.Fatalf("Markdown: %v", err)
			}
			for _, s := range tt.contains {
				if !strings.Contains(string(out), s) {
					t.Errorf("output %q does not contain %q", out, s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(string(out), s) {
					t.Errorf("output %q contains %q", out, s)
				}
			}
		})
	}
}
