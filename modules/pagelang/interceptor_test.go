// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-pagelang/internal/model"
	"github.com/olegiv/ocms-pagelang/internal/module"
	"github.com/olegiv/ocms-pagelang/internal/testutil"
	"github.com/olegiv/ocms-pagelang/internal/wiki"
)

// editOf starts an edit of title on a host without any module hooks.
func editOf(t *testing.T, title, lang string) *wiki.EditPage {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	if lang != "" {
		testutil.CreatePage(t, db, model.NamespaceMain, title, lang)
	}

	h := wiki.New(wiki.Config{
		DB:     db,
		Hooks:  module.NewHookRegistry(testutil.TestLogger()),
		Logger: testutil.TestLogger(),
	})
	e, err := h.Edit(context.Background(), title, model.User{ID: 1, Name: "Alice"}, "en")
	require.NoError(t, err)
	return e
}

func TestInterceptor_ImportFormData(t *testing.T) {
	tests := []struct {
		name      string
		submitted url.Values
		validate  bool
		want      Change
		changed   bool
		wantErr   error
	}{
		{"field absent", url.Values{}, false, Change{Old: "de"}, false, nil},
		{"empty value", url.Values{FieldName: {""}}, false, Change{Old: "de"}, false, nil},
		{"blank value", url.Values{FieldName: {"  "}}, false, Change{Old: "de"}, false, nil},
		{"same language", url.Values{FieldName: {"de"}}, false, Change{Old: "de"}, false, nil},
		{"new language", url.Values{FieldName: {"fr"}}, false, Change{Old: "de", New: "fr"}, true, nil},
		{"trimmed", url.Values{FieldName: {" fr "}}, false, Change{Old: "de", New: "fr"}, true, nil},
		{"unknown code accepted", url.Values{FieldName: {"qq-zz"}}, false, Change{Old: "de", New: "qq-zz"}, true, nil},
		{"unknown code rejected", url.Values{FieldName: {"qq-zz"}}, true, Change{}, false, ErrUnknownLanguage},
		{"known code validated", url.Values{FieldName: {"pt-br"}}, true, Change{Old: "de", New: "pt-br"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := editOf(t, "Bar", "de")
			settings := defaultSettings()
			settings.Validate = tt.validate

			err := NewInterceptor(settings).ImportFormData(e, tt.submitted)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error = %v", err)
				_, ok := ChangeOf(e)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)

			got, ok := ChangeOf(e)
			assert.Equal(t, tt.changed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterceptor_NewPageUsesDefaultLanguage(t *testing.T) {
	e := editOf(t, "Fresh", "")

	require.NoError(t, NewInterceptor(defaultSettings()).ImportFormData(e, url.Values{FieldName: {"ru"}}))

	got, ok := ChangeOf(e)
	assert.True(t, ok)
	assert.Equal(t, Change{Old: "en", New: "ru"}, got)
}

func TestChangeOf_NothingRecorded(t *testing.T) {
	e := editOf(t, "Bar", "de")
	_, ok := ChangeOf(e)
	assert.False(t, ok)
}

func TestSubmittedLanguage(t *testing.T) {
	e := editOf(t, "Bar", "de")
	_, ok := SubmittedLanguage(e)
	assert.False(t, ok, "nothing imported yet")

	settings := defaultSettings()
	settings.Validate = true
	err := NewInterceptor(settings).ImportFormData(e, url.Values{FieldName: {" qq-zz "}})
	require.ErrorIs(t, err, ErrUnknownLanguage)

	code, ok := SubmittedLanguage(e)
	assert.True(t, ok)
	assert.Equal(t, "qq-zz", code, "a rejected code is still kept for the form")
}
