// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders the files of a generated restaurant site from the
// embedded theme. HTML pages go through html/template so content is
// escaped; stylesheets, scripts and text files go through text/template.
// Rendering is deterministic: the same data always yields the same bytes.
package engine

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"path"
	"sort"
	"strings"
	texttemplate "text/template"
)

//go:embed theme
var themeFS embed.FS

// Engine holds the compiled theme. It is safe for concurrent use.
type Engine struct {
	pages *htmltemplate.Template
	files *texttemplate.Template
}

// New compiles the embedded theme.
func New() (*Engine, error) {
	pages, err := htmltemplate.New("theme").Funcs(htmltemplate.FuncMap(funcs)).
		ParseFS(themeFS, "theme/*.html")
	if err != nil {
		return nil, fmt.Errorf("compile page templates: %w", err)
	}
	files, err := texttemplate.New("theme").Funcs(texttemplate.FuncMap(funcs)).
		ParseFS(themeFS, "theme/*.css", "theme/*.js", "theme/*.txt")
	if err != nil {
		return nil, fmt.Errorf("compile file templates: %w", err)
	}
	return &Engine{pages: pages, files: files}, nil
}

// Render executes the named theme template ("page.html", "main.css",
// "sw.js", ...) with data and returns the output.
func (e *Engine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	var err error
	if path.Ext(name) == ".html" {
		t := e.pages.Lookup(name)
		if t == nil {
			return "", fmt.Errorf("render %s: no such template", name)
		}
		err = t.Execute(&buf, data)
	} else {
		t := e.files.Lookup(name)
		if t == nil {
			return "", fmt.Errorf("render %s: no such template", name)
		}
		err = t.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Templates lists the renderable theme files, sorted.
func (e *Engine) Templates() []string {
	var names []string
	for _, t := range e.pages.Templates() {
		if path.Ext(t.Name()) == ".html" && t.Name() != "sections.html" {
			names = append(names, t.Name())
		}
	}
	for _, t := range e.files.Templates() {
		if path.Ext(t.Name()) != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return names
}

var funcs = map[string]any{
	"join": strings.Join,
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
	"stars": func(n int) string {
		n = min(max(n, 0), 5)
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
}
