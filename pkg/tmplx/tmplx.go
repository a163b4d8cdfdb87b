// Package tmplx is a small text/template wrapper used for rendering the
// interview and extraction prompts.
package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

type Template struct {
	tmpl *template.Template
}

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"json":    jsonFunc,
		"default": defaultFunc,
		"join":    joinFunc,
	}
}

func MustParse(name string, text string) *Template {
	t, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(name string, text string) (*Template, error) {
	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(defaultFuncs()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}
	return &Template{tmpl: tmpl}, nil
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func defaultFunc(def any, value any) any {
	if value != nil && cast.ToString(value) != "" {
		return value
	}
	return def
}

func joinFunc(sep string, values any) string {
	items := cast.ToStringSlice(values)
	return strings.Join(items, sep)
}
