// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func passThrough(_ context.Context, data any) (any, error) { return data, nil }

func handler(name, module string, fn HookFunc) HookHandler {
	return HookHandler{Name: name, Module: module, Fn: fn}
}

func TestHookRegistryRegister(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	if count := registry.HandlerCount(HookLanguageLinks); count != 0 {
		t.Errorf("HandlerCount() = %d for unregistered hook", count)
	}

	registry.Register(HookLanguageLinks, handler("merge", "pagelang", passThrough))

	if count := registry.HandlerCount(HookLanguageLinks); count != 1 {
		t.Errorf("HandlerCount() = %d, want 1", count)
	}
}

func TestHookRegistryPriorityOrder(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	var calls []string
	add := func(name string, priority int) {
		registry.Register(HookEditAfterSave, HookHandler{
			Name:     name,
			Module:   "test",
			Priority: priority,
			Fn: func(_ context.Context, data any) (any, error) {
				calls = append(calls, name)
				return data, nil
			},
		})
	}

	add("last", 100)
	add("first", -10)
	add("middle-a", 50)
	add("middle-b", 50)

	if err := registry.CallNoResult(context.Background(), HookEditAfterSave, nil); err != nil {
		t.Fatalf("CallNoResult() error = %v", err)
	}

	want := []string{"first", "middle-a", "middle-b", "last"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("call order = %v, want %v", calls, want)
	}
}

func TestHookRegistryCallChain(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	registry.Register("test.hook", HookHandler{Name: "add1", Module: "test", Priority: 0,
		Fn: func(_ context.Context, data any) (any, error) { return data.(int) + 1, nil }})
	registry.Register("test.hook", HookHandler{Name: "double", Module: "test", Priority: 10,
		Fn: func(_ context.Context, data any) (any, error) { return data.(int) * 2, nil }})

	result, err := registry.Call(context.Background(), "test.hook", 5)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result != 12 {
		t.Errorf("Call() = %v, want 12", result)
	}
}

func TestHookRegistryCallError(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	boom := errors.New("boom")
	second := false
	registry.Register("test.hook", HookHandler{Name: "failing", Module: "test", Priority: 0,
		Fn: func(context.Context, any) (any, error) { return nil, boom }})
	registry.Register("test.hook", HookHandler{Name: "after", Module: "test", Priority: 1,
		Fn: func(_ context.Context, data any) (any, error) { second = true; return data, nil }})

	_, err := registry.Call(context.Background(), "test.hook", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Call() error = %v, should wrap %v", err, boom)
	}
	if second {
		t.Error("handlers after a failing one should not run")
	}
}

func TestHookRegistryCallNoHandlers(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	result, err := registry.Call(context.Background(), "nonexistent.hook", "original")
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result != "original" {
		t.Errorf("Call() = %v, want %q", result, "original")
	}
}

func TestHookRegistrySkipsInactiveModules(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	called := false
	registry.Register("test.hook", handler("handler", "inactive_module", func(_ context.Context, data any) (any, error) {
		called = true
		return data, nil
	}))
	registry.SetIsModuleActive(func(name string) bool { return name != "inactive_module" })

	if err := registry.CallNoResult(context.Background(), "test.hook", nil); err != nil {
		t.Fatalf("CallNoResult() error = %v", err)
	}
	if called {
		t.Error("handler from inactive module should not be called")
	}
}

func TestHookRegistryListAndUnregister(t *testing.T) {
	registry := NewHookRegistry(newTestLogger())

	registry.Register(HookEditFormFields, handler("h", "pagelang", passThrough))
	registry.Register(HookEditAfterSave, handler("h", "pagelang", passThrough))
	registry.Register(HookEditAfterSave, handler("h", "other", passThrough))

	want := []string{HookEditAfterSave, HookEditFormFields}
	if got := registry.ListHooks(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListHooks() = %v, want %v", got, want)
	}

	registry.UnregisterAll("pagelang")

	if count := registry.HandlerCount(HookEditFormFields); count != 0 {
		t.Errorf("HandlerCount(form_fields) = %d, want 0", count)
	}
	if count := registry.HandlerCount(HookEditAfterSave); count != 1 {
		t.Errorf("HandlerCount(after_save) = %d, want 1", count)
	}
	if got := registry.ListHooks(); !reflect.DeepEqual(got, []string{HookEditAfterSave}) {
		t.Errorf("ListHooks() after unregister = %v", got)
	}
}
