// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compiler

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"menupress/internal/engine"
	"menupress/internal/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the root element of sitemap.xml.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry of a sitemap.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// buildSitemap lists the homepage and every other published page.
func buildSitemap(doc *models.Content, liveURL, lastMod string) ([]byte, error) {
	set := URLSet{XMLNS: sitemapNS}
	for _, p := range doc.Pages {
		switch {
		case p.IsHomepage:
			set.URLs = append(set.URLs, SitemapURL{Loc: liveURL, LastMod: lastMod, ChangeFreq: "weekly", Priority: "1.0"})
		case p.Published:
			set.URLs = append(set.URLs, SitemapURL{Loc: liveURL + "/" + pageFile(p), LastMod: lastMod, ChangeFreq: "monthly", Priority: "0.8"})
		}
	}
	// Homepage first regardless of page order.
	slices.SortStableFunc(set.URLs, func(a, b SitemapURL) int {
		if a.Loc == liveURL {
			return -1
		}
		if b.Loc == liveURL {
			return 1
		}
		return 0
	})
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// WebManifest is manifest.json.
type WebManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Icons           []ManifestIcon `json:"icons"`
}

// ManifestIcon is one icon entry of the web manifest.
type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

func buildManifest(doc *models.Content, theme engine.ThemeData, icons []ManifestIcon) ([]byte, error) {
	m := WebManifest{
		Name:            doc.WebsiteName,
		ShortName:       shortName(doc.WebsiteName),
		Description:     doc.SEO.SiteDescription,
		StartURL:        "./index.html",
		Display:         "standalone",
		ThemeColor:      theme.Primary,
		BackgroundColor: theme.Background,
		Icons:           icons,
	}
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// shortName trims a name to the 12 characters launchers display.
func shortName(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) <= 12 {
		return string(r)
	}
	return strings.TrimSpace(string(r[:12]))
}

// Schema.org types for the JSON-LD block of every page.

type restaurantLD struct {
	Context       string     `json:"@context"`
	Type          string     `json:"@type"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	URL           string     `json:"url"`
	Image         string     `json:"image,omitempty"`
	Logo          string     `json:"logo,omitempty"`
	Telephone     string     `json:"telephone,omitempty"`
	Email         string     `json:"email,omitempty"`
	ServesCuisine string     `json:"servesCuisine,omitempty"`
	PriceRange    string     `json:"priceRange,omitempty"`
	Address       *addressLD `json:"address,omitempty"`
	AcceptsRes    string     `json:"acceptsReservations,omitempty"`
	HasMenu       *menuLD    `json:"hasMenu,omitempty"`
}

type addressLD struct {
	Type       string `json:"@type"`
	Street     string `json:"streetAddress,omitempty"`
	Locality   string `json:"addressLocality,omitempty"`
	Region     string `json:"addressRegion,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"addressCountry,omitempty"`
}

type menuLD struct {
	Type     string          `json:"@type"`
	URL      string          `json:"url,omitempty"`
	Sections []menuSectionLD `json:"hasMenuSection"`
}

type menuSectionLD struct {
	Type  string       `json:"@type"`
	Name  string       `json:"name"`
	Items []menuItemLD `json:"hasMenuItem"`
}

type menuItemLD struct {
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Offers      *offerLD `json:"offers,omitempty"`
}

type offerLD struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
}

// structuredData builds the schema.org Restaurant document. Image paths are
// made absolute against liveURL.
func structuredData(doc *models.Content, liveURL, menuPage string, heroSrc, logoSrc string, itemImages map[string]string) ([]byte, error) {
	abs := func(rel string) string {
		if rel == "" {
			return ""
		}
		return liveURL + "/" + rel
	}
	b := doc.Business
	ld := restaurantLD{
		Context:       "https://schema.org",
		Type:          "Restaurant",
		Name:          doc.WebsiteName,
		Description:   doc.SEO.SiteDescription,
		URL:           liveURL,
		Image:         abs(heroSrc),
		Logo:          abs(logoSrc),
		Telephone:     b.Phone,
		Email:         b.Email,
		ServesCuisine: b.Cuisine,
		PriceRange:    b.PriceRange,
	}
	if doc.Integrations.ReservationURL != "" {
		ld.AcceptsRes = doc.Integrations.ReservationURL
	}
	if a := b.Address; a != (models.Address{}) {
		ld.Address = &addressLD{
			Type: "PostalAddress", Street: a.Street, Locality: a.City,
			Region: a.Region, PostalCode: a.PostalCode, Country: a.Country,
		}
	}

	currency := strings.ToUpper(b.Currency)
	if currency == "" {
		currency = "USD"
	}
	menu := &menuLD{Type: "Menu"}
	if menuPage != "" {
		menu.URL = liveURL + "/" + menuPage
	}
	index := make(map[string]int)
	for _, item := range doc.MenuItems {
		if !item.Available {
			continue
		}
		cat := item.Category
		if cat == "" {
			cat = "Menu"
		}
		i, ok := index[cat]
		if !ok {
			i = len(menu.Sections)
			index[cat] = i
			menu.Sections = append(menu.Sections, menuSectionLD{Type: "MenuSection", Name: cat})
		}
		menu.Sections[i].Items = append(menu.Sections[i].Items, menuItemLD{
			Type:        "MenuItem",
			Name:        item.Name,
			Description: item.Description,
			Image:       abs(itemImages[item.Image]),
			Offers: &offerLD{
				Type:          "Offer",
				Price:         decimalPrice(item.PriceCents),
				PriceCurrency: currency,
			},
		})
	}
	if len(menu.Sections) > 0 {
		ld.HasMenu = menu
	}
	return json.Marshal(ld)
}

func decimalPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
