// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordLanguageChange(t *testing.T) {
	before := testutil.ToFloat64(LanguageChangesTotal.WithLabelValues("de"))
	RecordLanguageChange("de")
	after := testutil.ToFloat64(LanguageChangesTotal.WithLabelValues("de"))
	if after-before != 1 {
		t.Errorf("language_changes_total{de} grew by %v, want 1", after-before)
	}

	beforeNone := testutil.ToFloat64(LanguageChangesTotal.WithLabelValues("none"))
	RecordLanguageChange("")
	if got := testutil.ToFloat64(LanguageChangesTotal.WithLabelValues("none")) - beforeNone; got != 1 {
		t.Errorf("language_changes_total{none} grew by %v, want 1", got)
	}
}

func TestRecordLinkMerge(t *testing.T) {
	tests := []struct {
		name         string
		merged       bool
		suffixed     int
		wantResult   string
		wantSuffixed float64
	}{
		{"skipped", false, 3, MergeResultSkipped, 0},
		{"merged without suffixed links", true, 0, MergeResultMerged, 0},
		{"merged with suffixed links", true, 2, MergeResultMerged, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := LinkMergesTotal.WithLabelValues(tt.wantResult)
			before := testutil.ToFloat64(counter)
			beforeSuffixed := testutil.ToFloat64(SuffixedLinksTotal)

			RecordLinkMerge(tt.merged, tt.suffixed)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("link_merges_total{%s} grew by %v, want 1", tt.wantResult, got)
			}
			if got := testutil.ToFloat64(SuffixedLinksTotal) - beforeSuffixed; got != tt.wantSuffixed {
				t.Errorf("suffixed_links_total grew by %v, want %v", got, tt.wantSuffixed)
			}
		})
	}
}

func TestRecordRenderCache(t *testing.T) {
	hits := testutil.ToFloat64(RenderCacheHits)
	misses := testutil.ToFloat64(RenderCacheMisses)

	RecordRenderCache(true)
	RecordRenderCache(false)
	RecordRenderCache(false)

	if got := testutil.ToFloat64(RenderCacheHits) - hits; got != 1 {
		t.Errorf("hits grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(RenderCacheMisses) - misses; got != 2 {
		t.Errorf("misses grew by %v, want 2", got)
	}
}

func TestRecordLanguageChangeError(t *testing.T) {
	before := testutil.ToFloat64(LanguageChangeErrorsTotal.WithLabelValues("log"))
	RecordLanguageChangeError("log")
	if got := testutil.ToFloat64(LanguageChangeErrorsTotal.WithLabelValues("log")) - before; got != 1 {
		t.Errorf("language_change_errors_total{log} grew by %v, want 1", got)
	}
}
