// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the application logger. WARN and ERROR records are
// also written to the audit log as system entries.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/service"
)

var (
	errQueueFull    = errors.New("audit queue full")
	errWriterClosed = errors.New("audit writer closed")
)

// auditQueueSize bounds the audit records waiting to be written.
const auditQueueSize = 256

// Options configures New.
type Options struct {
	Level slog.Level
	JSON  bool // JSON output instead of text
}

// New returns a logger writing to w and a function that flushes pending
// audit entries. When logs is non-nil, records at WARN and above are also
// stored in the audit log.
func New(w io.Writer, opts Options, logs *service.LogService) (*slog.Logger, func()) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	if logs == nil {
		return slog.New(h), func() {}
	}
	audit := NewAuditHandler(h, logs)
	return slog.New(audit), audit.Close
}

// AuditHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the audit log.
//
// Entries are written by a background goroutine, so a record logged while
// the caller holds an open write transaction is stored once that
// transaction ends. Write failures and dropped entries are reported to the
// wrapped handler. Close flushes the queue.
type AuditHandler struct {
	inner  slog.Handler
	writer *auditWriter
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewAuditHandler creates an AuditHandler forwarding WARN and above.
func NewAuditHandler(inner slog.Handler, logs *service.LogService) *AuditHandler {
	return NewAuditHandlerWithLevel(inner, logs, slog.LevelWarn)
}

// NewAuditHandlerWithLevel creates an AuditHandler with a custom minimum level.
func NewAuditHandlerWithLevel(inner slog.Handler, logs *service.LogService, level slog.Level) *AuditHandler {
	return &AuditHandler{inner: inner, writer: newAuditWriter(logs, inner), level: level}
}

// Close stops accepting audit entries and waits for queued ones to be
// written. Handlers derived with WithAttrs or WithGroup share the queue.
func (h *AuditHandler) Close() {
	h.writer.close()
}

// Enabled implements slog.Handler.
func (h *AuditHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writer.enqueue(h.entryFor(r))
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &c
}

// WithGroup implements slog.Handler.
func (h *AuditHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)
	if h.group != "" {
		name = h.group + "." + name
	}
	c.group = name
	return &c
}

func (h *AuditHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// entryFor converts r into a system log entry.
func (h *AuditHandler) entryFor(r slog.Record) model.LogEntry {
	params := map[string]string{"message": r.Message}
	for _, a := range h.attrs {
		params[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		params[key] = a.Value.String()
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return model.LogEntry{
		Type:      model.LogTypeSystem,
		Action:    actionFor(r.Level),
		Performer: model.User{Name: "system"},
		Params:    params,
		Timestamp: ts,
	}
}

func actionFor(level slog.Level) string {
	if level >= slog.LevelError {
		return "error"
	}
	return "warning"
}

// auditWriter drains queued entries into the audit log. Problems are
// reported to report, never to the audit handler itself.
type auditWriter struct {
	logs    *service.LogService
	report  slog.Handler
	entries chan model.LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newAuditWriter(logs *service.LogService, report slog.Handler) *auditWriter {
	w := &auditWriter{
		logs:    logs,
		report:  report,
		entries: make(chan model.LogEntry, auditQueueSize),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *auditWriter) run() {
	defer close(w.done)
	for entry := range w.entries {
		// A background context keeps the entry when the request is cancelled.
		if _, err := w.logs.Record(context.Background(), entry); err != nil {
			w.fail("audit log write failed", entry, err)
		}
	}
}

// enqueue never blocks; a full or closed queue drops the entry.
func (w *auditWriter) enqueue(entry model.LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.fail("audit log entry dropped", entry, errWriterClosed)
		return
	}
	select {
	case w.entries <- entry:
	default:
		w.fail("audit log entry dropped", entry, errQueueFull)
	}
}

func (w *auditWriter) close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.entries)
	}
	w.mu.Unlock()
	<-w.done
}

func (w *auditWriter) fail(msg string, entry model.LogEntry, err error) {
	r := slog.NewRecord(time.Now(), slog.LevelError, msg, 0)
	r.AddAttrs(
		slog.String("entry_action", entry.Action),
		slog.String("entry_message", entry.Param("message")),
		slog.String("error", err.Error()),
	)
	_ = w.report.Handle(context.Background(), r)
}
