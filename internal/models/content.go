// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "slices"

// Content is the editable website document. The draft and every published
// snapshot share this shape, so a snapshot is simply a deep copy.
type Content struct {
	WebsiteName  string              `json:"website_name"`
	DesignSystem DesignSystem        `json:"design_system"`
	Pages        []Page              `json:"pages"`
	SEO          SEOSettings         `json:"seo_settings"`
	Integrations IntegrationSettings `json:"integration_settings"`
	CustomCode   CustomCode          `json:"custom_code"`
	HeroImage    string              `json:"hero_image"`
	MenuItems    []MenuItem          `json:"menu_items"`
	Business     BusinessInfo        `json:"business"`
}

// DesignSystem holds the visual tokens that drive the generated theme.
type DesignSystem struct {
	Colors     ColorPalette `json:"colors"`
	Typography Typography   `json:"typography"`
	Spacing    Spacing      `json:"spacing"`
	LogoImage  string       `json:"logo_image"`
}

// ColorPalette holds CSS color values (hex, rgb(), or named colors).
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Typography holds font tokens.
type Typography struct {
	HeadingFont  string `json:"heading_font"`
	BodyFont     string `json:"body_font"`
	BaseFontSize string `json:"base_font_size"`
	LineHeight   string `json:"line_height"`
}

// Spacing holds layout tokens.
type Spacing struct {
	Unit           string `json:"unit"`
	SectionPadding string `json:"section_padding"`
	ContainerWidth string `json:"container_width"`
	BorderRadius   string `json:"border_radius"`
}

// SEOSettings controls search-engine metadata for the whole site.
type SEOSettings struct {
	SiteTitle       string   `json:"site_title"`
	SiteDescription string   `json:"site_description"`
	Keywords        []string `json:"keywords"`
	OGImage         string   `json:"og_image"`
	RobotsTxt       string   `json:"robots_txt"` // verbatim override; empty means generated
}

// IntegrationSettings holds third-party identifiers embedded in pages.
type IntegrationSettings struct {
	GoogleAnalyticsID string `json:"google_analytics_id"`
	FacebookPixelID   string `json:"facebook_pixel_id"`
	ReservationURL    string `json:"reservation_url"`
	OrderingURL       string `json:"ordering_url"`
}

// CustomCode is owner-supplied markup injected verbatim.
type CustomCode struct {
	HeadHTML string `json:"head_html"`
	BodyHTML string `json:"body_html"`
	CSS      string `json:"css"`
}

// MenuItem is one dish or drink on the restaurant's menu.
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Dietary     []string `json:"dietary"`
	Available   bool     `json:"available"`
}

// BusinessInfo describes the restaurant for structured data and contact blocks.
type BusinessInfo struct {
	Cuisine    string  `json:"cuisine"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	PriceRange string  `json:"price_range"`
	Currency   string  `json:"currency"`
	Address    Address `json:"address"`
}

// Address is a postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Page is one ordered page of the website.
type Page struct {
	ID              string   `json:"id"`
	Slug            string   `json:"page_slug"`
	Title           string   `json:"page_title"`
	MetaDescription string   `json:"meta_description"`
	IsHomepage      bool     `json:"is_homepage"`
	Sections        Sections `json:"sections"`
	CustomCSS       string   `json:"custom_css"`
	Published       bool     `json:"published"`
}

// Homepage returns the first page flagged as homepage, or nil.
func (c *Content) Homepage() *Page {
	for i := range c.Pages {
		if c.Pages[i].IsHomepage {
			return &c.Pages[i]
		}
	}
	return nil
}

// Clone returns a deep copy that shares no mutable state with c.
func (c Content) Clone() Content {
	out := c
	out.SEO.Keywords = slices.Clone(c.SEO.Keywords)

	if c.Pages != nil {
		out.Pages = make([]Page, len(c.Pages))
		for i, p := range c.Pages {
			p.Sections = p.Sections.Clone()
			out.Pages[i] = p
		}
	}

	if c.MenuItems != nil {
		out.MenuItems = make([]MenuItem, len(c.MenuItems))
		for i, m := range c.MenuItems {
			m.Dietary = slices.Clone(m.Dietary)
			out.MenuItems[i] = m
		}
	}
	return out
}
