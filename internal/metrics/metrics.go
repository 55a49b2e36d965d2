// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics provides Prometheus metrics for page language changes,
// interlanguage link merging and the render cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const Namespace = "pagelang"

// Merge results
const (
	MergeResultMerged  = "merged"
	MergeResultSkipped = "skipped"
)

var (
	// LanguageChangesTotal counts saved content language changes by new language
	LanguageChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "language_changes_total",
		Help:      "Total number of page content language changes",
	}, []string{"language"})

	// LanguageChangeErrorsTotal counts failed language changes by stage
	LanguageChangeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "language_change_errors_total",
		Help:      "Total number of failed page content language changes",
	}, []string{"stage"})

	// LinkMergesTotal counts interlanguage link computations by result
	LinkMergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "link_merges_total",
		Help:      "Total number of interlanguage link merges",
	}, []string{"result"})

	// SuffixedLinksTotal counts synthesized suffixed links
	SuffixedLinksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "suffixed_links_total",
		Help:      "Total number of synthesized suffixed interlanguage links",
	})

	// RenderCacheInvalidationsTotal counts render cache invalidations
	RenderCacheInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "render_cache_invalidations_total",
		Help:      "Total number of page render cache invalidations",
	})

	// RenderCacheHits counts render cache hits
	RenderCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "render_cache_hits_total",
		Help:      "Total render cache hit count",
	})

	// RenderCacheMisses counts render cache misses
	RenderCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "render_cache_misses_total",
		Help:      "Total render cache miss count",
	})
)

// RecordLanguageChange records a successful language change.
func RecordLanguageChange(newLang string) {
	if newLang == "" {
		newLang = "none"
	}
	LanguageChangesTotal.WithLabelValues(newLang).Inc()
}

// RecordLanguageChangeError records a failed language change at a stage
// ("update", "invalidate", "log").
func RecordLanguageChangeError(stage string) {
	LanguageChangeErrorsTotal.WithLabelValues(stage).Inc()
}

// RecordLinkMerge records one interlanguage link computation.
func RecordLinkMerge(merged bool, suffixed int) {
	if !merged {
		LinkMergesTotal.WithLabelValues(MergeResultSkipped).Inc()
		return
	}
	LinkMergesTotal.WithLabelValues(MergeResultMerged).Inc()
	if suffixed > 0 {
		SuffixedLinksTotal.Add(float64(suffixed))
	}
}

// RecordRenderCache records a render cache lookup.
func RecordRenderCache(hit bool) {
	if hit {
		RenderCacheHits.Inc()
		return
	}
	RenderCacheMisses.Inc()
}
