// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import (
	"bytes"
	"fmt"
	"html/template"
	"slices"

	"github.com/olegiv/ocms-pagelang/internal/i18n"
)

// Form field identifiers. FieldName is also the submitted form key.
const (
	FieldName     = "wplanguage"
	FieldID       = "mw-pl-languageselector"
	FieldCSSClass = "mw-languageselector"
	FieldType     = "select"
)

// Option is one entry of the language select.
type Option struct {
	Label string // "code - name"
	Value string // code
}

// FormField describes the language select of the edit form.
type FormField struct {
	ID       string
	CSSClass string
	Type     string
	Name     string
	Options  []Option
	Default  string
}

// TitleInfo is the part of a page title the field builder reads.
type TitleInfo interface {
	PageLanguage() string
}

// BuildFormField builds the language select. Options list every known
// language, sorted by code, with names in displayLang. The default is the
// language of title, or the site default when title is nil.
func BuildFormField(displayLang string, title TitleInfo, settings Settings) FormField {
	codes := i18n.KnownLanguages()
	options := make([]Option, 0, len(codes))
	for _, code := range codes {
		options = append(options, Option{
			Label: code + " - " + i18n.LanguageName(code, displayLang),
			Value: code,
		})
	}

	def := settings.DefaultLanguage
	if title != nil {
		def = title.PageLanguage()
	}

	return FormField{
		ID:       FieldID,
		CSSClass: FieldCSSClass,
		Type:     FieldType,
		Name:     FieldName,
		Options:  options,
		Default:  def,
	}
}

// Select makes code the selected option, adding an option for it when code
// is not a known language.
func (f FormField) Select(code string) FormField {
	f.Default = code
	if !slices.ContainsFunc(f.Options, func(o Option) bool { return o.Value == code }) {
		f.Options = append(slices.Clone(f.Options), Option{Label: code, Value: code})
	}
	return f
}

var fieldTemplate = template.Must(template.New("pagelang-field").Parse(
	`<div id="elang-selector-container"><div id="elang-selector-label">{{.Label}} </div>` +
		`<select id="{{.Field.ID}}" class="{{.Field.CSSClass}}" name="{{.Field.Name}}">` +
		`{{$def := .Field.Default}}{{range .Field.Options}}` +
		`<option value="{{.Value}}"{{if eq .Value $def}} selected{{end}}>{{.Label}}</option>` +
		`{{end}}</select></div>`))

// RenderFormField renders field as the selector block of the edit form.
// label is the text shown before the select.
func RenderFormField(field FormField, label string) (template.HTML, error) {
	var buf bytes.Buffer
	err := fieldTemplate.Execute(&buf, struct {
		Label string
		Field FormField
	}{label, field})
	if err != nil {
		return "", fmt.Errorf("rendering language field: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // escaped by html/template
}
