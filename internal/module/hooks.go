// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Hook names fired by the wiki host.
const (
	// HookEditImportFormData fires while an edit form submission is read.
	// Data: *wiki.ImportFormData.
	HookEditImportFormData = "edit.import_form_data"
	// HookEditFormFields fires while the edit form is rendered.
	// Data: *wiki.FormFieldsData.
	HookEditFormFields = "edit.form_fields"
	// HookEditAfterSave fires inside the save transaction once the page
	// body is written. Data: *wiki.AfterSaveData.
	HookEditAfterSave = "edit.after_save"
	// HookLanguageLinks fires once per page view after the host computed
	// the interlanguage links. Data: *wiki.LanguageLinksData.
	HookLanguageLinks = "page.language_links"
)

// HookFunc handles a hook. It returns the data passed on to the next
// handler; returning an error stops the chain.
type HookFunc func(ctx context.Context, data any) (any, error)

// HookHandler wraps a HookFunc with metadata.
type HookHandler struct {
	Name     string   // Name of the handler for debugging
	Module   string   // Module that registered the handler
	Priority int      // Lower priority runs first (default: 0)
	Fn       HookFunc // The actual handler function
}

// IsModuleActiveFunc reports whether a module is active.
type IsModuleActiveFunc func(moduleName string) bool

// HookRegistry manages hook registration and execution.
type HookRegistry struct {
	hooks          map[string][]HookHandler
	logger         *slog.Logger
	isModuleActive IsModuleActiveFunc
	mu             sync.RWMutex
}

// NewHookRegistry creates a new hook registry where every module counts
// as active.
func NewHookRegistry(logger *slog.Logger) *HookRegistry {
	return &HookRegistry{
		hooks:          make(map[string][]HookHandler),
		logger:         logger,
		isModuleActive: func(string) bool { return true },
	}
}

// SetIsModuleActive sets the callback used to skip inactive modules.
func (h *HookRegistry) SetIsModuleActive(fn IsModuleActiveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isModuleActive = fn
}

// Register adds a handler for hookName. Handlers with equal priority keep
// their registration order.
func (h *HookRegistry) Register(hookName string, handler HookHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Call iterates over a snapshot, so never sort the stored slice in place.
	handlers := append(slices.Clone(h.hooks[hookName]), handler)
	slices.SortStableFunc(handlers, func(a, b HookHandler) int {
		return a.Priority - b.Priority
	})
	h.hooks[hookName] = handlers

	h.logger.Debug("hook registered",
		"hook", hookName,
		"handler", handler.Name,
		"module", handler.Module,
		"priority", handler.Priority,
	)
}

// Call runs the handlers of hookName in priority order, passing each
// handler's result to the next. Handlers of inactive modules are skipped.
// The first handler error stops the chain and is returned wrapped.
func (h *HookRegistry) Call(ctx context.Context, hookName string, data any) (any, error) {
	h.mu.RLock()
	handlers := h.hooks[hookName]
	isModuleActive := h.isModuleActive
	h.mu.RUnlock()

	if len(handlers) == 0 {
		return data, nil
	}

	current := data
	for _, handler := range handlers {
		if !isModuleActive(handler.Module) {
			continue
		}

		result, err := handler.Fn(ctx, current)
		if err != nil {
			h.logger.Error("hook handler error",
				"hook", hookName,
				"handler", handler.Name,
				"module", handler.Module,
				"error", err,
			)
			return nil, fmt.Errorf("hook %s handler %s: %w", hookName, handler.Name, err)
		}
		current = result
	}

	return current, nil
}

// CallNoResult runs the handlers of hookName and drops the result. The
// host's hook data are pointers, so handlers mutate them in place.
func (h *HookRegistry) CallNoResult(ctx context.Context, hookName string, data any) error {
	_, err := h.Call(ctx, hookName, data)
	return err
}

// HandlerCount returns the number of handlers registered for hookName.
func (h *HookRegistry) HandlerCount(hookName string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.hooks[hookName])
}

// ListHooks returns the registered hook names, sorted.
func (h *HookRegistry) ListHooks() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.hooks))
	for name, handlers := range h.hooks {
		if len(handlers) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// UnregisterAll removes every handler registered by moduleName.
func (h *HookRegistry) UnregisterAll(moduleName string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for hookName, handlers := range h.hooks {
		h.hooks[hookName] = slices.DeleteFunc(slices.Clone(handlers), func(handler HookHandler) bool {
			return handler.Module == moduleName
		})
	}

	h.logger.Debug("all hooks unregistered for module", "module", moduleName)
}
