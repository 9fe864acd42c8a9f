// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"strings"

	"menupress/internal/models"
)

// Image is a resolved image ready for an <img> tag.
type Image struct {
	Src    string
	SrcSet string
	Alt    string
	Width  int
	Height int
}

// NavItem is one entry of the site navigation.
type NavItem struct {
	Title   string
	URL     string
	Current bool
}

// SiteData holds everything shared by all pages of one website.
type SiteData struct {
	Name        string
	Title       string
	Description string
	Keywords    string
	LiveURL     string
	Logo        Image

	GoogleAnalyticsID string
	FacebookPixelID   string
	ReservationURL    string
	OrderingURL       string

	Phone   string
	Email   string
	Address string

	HeadHTML template.HTML // owner-supplied, injected verbatim
	BodyHTML template.HTML
	Year     int
}

// PageData holds the variables available to the page template, e.g.
// {{.Title}}, {{.Site.Name}}, {{range .Sections}}.
type PageData struct {
	Site            SiteData
	Slug            string // "" for the homepage
	Title           string
	MetaDescription string
	Canonical       string
	OGImage         string
	NoIndex         bool
	Nav             []NavItem
	Sections        []SectionView
	StructuredData  template.JS // JSON-LD document
}

// ThemeData holds the sanitized design tokens consumed by main.css.
type ThemeData struct {
	Primary    string
	Secondary  string
	Accent     string
	Background string
	Text       string

	HeadingFont  string
	BodyFont     string
	BaseFontSize string
	LineHeight   string

	Unit           string
	SectionPadding string
	ContainerWidth string
	BorderRadius   string

	PageCSS   []PageCSS
	CustomCSS string
}

// PageCSS is the custom stylesheet of one page, scoped by its body class.
type PageCSS struct {
	Slug string
	CSS  string
}

// defaultTheme fills tokens the owner left empty.
var defaultTheme = ThemeData{
	Primary:        "#1f2937",
	Secondary:      "#4b5563",
	Accent:         "#d97706",
	Background:     "#ffffff",
	Text:           "#111827",
	HeadingFont:    "Georgia",
	BodyFont:       "system-ui",
	BaseFontSize:   "16px",
	LineHeight:     "1.6",
	Unit:           "8px",
	SectionPadding: "64px",
	ContainerWidth: "1120px",
	BorderRadius:   "6px",
}

// ThemeFrom converts design tokens into theme data. Empty tokens take
// defaults and characters that could break out of a declaration are removed.
func ThemeFrom(ds models.DesignSystem) ThemeData {
	d := defaultTheme
	return ThemeData{
		Primary:        token(ds.Colors.Primary, d.Primary),
		Secondary:      token(ds.Colors.Secondary, d.Secondary),
		Accent:         token(ds.Colors.Accent, d.Accent),
		Background:     token(ds.Colors.Background, d.Background),
		Text:           token(ds.Colors.Text, d.Text),
		HeadingFont:    token(ds.Typography.HeadingFont, d.HeadingFont),
		BodyFont:       token(ds.Typography.BodyFont, d.BodyFont),
		BaseFontSize:   token(ds.Typography.BaseFontSize, d.BaseFontSize),
		LineHeight:     token(ds.Typography.LineHeight, d.LineHeight),
		Unit:           token(ds.Spacing.Unit, d.Unit),
		SectionPadding: token(ds.Spacing.SectionPadding, d.SectionPadding),
		ContainerWidth: token(ds.Spacing.ContainerWidth, d.ContainerWidth),
		BorderRadius:   token(ds.Spacing.BorderRadius, d.BorderRadius),
	}
}

func token(v, fallback string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\'', '\\', '\n', '\r':
			return -1
		}
		return r
	}, v)
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// ServiceWorkerData is the input of sw.js.
type ServiceWorkerData struct {
	CacheName string
	Paths     []string
}

// RobotsData is the input of the generated robots.txt.
type RobotsData struct {
	SitemapURL string
}

// ScriptData is the input of main.js.
type ScriptData struct {
	Email string // contact form recipient
}
