// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"html/template"
	"slices"
	"strconv"
	"strings"

	"menupress/internal/markdown"
	"menupress/internal/models"
)

// SectionView is a section prepared for its template. Data holds one of the
// *View types below, matching Kind.
type SectionView struct {
	Name string
	Kind models.SectionKind
	Data any
}

type HeroView struct {
	Headline    string
	Subheadline string
	CTAText     string
	CTALink     string
	Image       Image
}

type AboutView struct {
	Title string
	Body  template.HTML
	Image *Image
}

type MenuItemView struct {
	Name        string
	Description string
	Price       string
	Dietary     []string
	Image       *Image
}

type MenuCategoryView struct {
	Name  string
	Items []MenuItemView
}

type MenuView struct {
	Title      string
	Intro      string
	ShowPrices bool
	Categories []MenuCategoryView
}

type GalleryView struct {
	Title  string
	Images []Image
}

type FAQItemView struct {
	Question string
	Answer   template.HTML
}

type FAQView struct {
	Title string
	Items []FAQItemView
}

type ContactView struct {
	Title          string
	Message        string
	FormEnabled    bool
	ShowMap        bool
	MapQuery       string
	Phone          string
	Email          string
	Address        string
	ReservationURL string
}

type HoursView struct {
	Title string
	Note  string
	Hours []models.OpeningHours
}

type TestimonialsView struct {
	Title string
	Items []models.Testimonial
}

type CustomView struct {
	Title string
	HTML  template.HTML
}

// ImageResolver maps a content image reference to its processed form.
type ImageResolver func(ref, category string) Image

// SectionContext carries the website-level data that sections draw on.
type SectionContext struct {
	HeroImage      string
	MenuItems      []models.MenuItem
	Business       models.BusinessInfo
	ReservationURL string
	Images         ImageResolver
	Rewrite        func(fragment string) string // applied to owner HTML
}

// BuildSection prepares a section for rendering.
func BuildSection(s models.Section, sc SectionContext) (SectionView, error) {
	view := SectionView{Name: s.Name, Kind: s.Kind()}
	img := func(ref, cat, alt string) Image {
		im := sc.Images(ref, cat)
		im.Alt = alt
		return im
	}
	rewrite := sc.Rewrite
	if rewrite == nil {
		rewrite = func(s string) string { return s }
	}

	switch p := s.Payload.(type) {
	case *models.HeroSection:
		ref := p.Image
		if ref == "" {
			ref = sc.HeroImage
		}
		view.Data = HeroView{
			Headline: p.Headline, Subheadline: p.Subheadline,
			CTAText: p.CTAText, CTALink: p.CTALink,
			Image: img(ref, "hero", p.Headline),
		}

	case *models.AboutSection:
		body, err := markdown.ToHTML(p.Body)
		if err != nil {
			return view, fmt.Errorf("section %q: markdown: %w", s.Name, err)
		}
		v := AboutView{Title: p.Title, Body: template.HTML(rewrite(body))}
		if p.Image != "" {
			im := img(p.Image, "gallery", p.Title)
			v.Image = &im
		}
		view.Data = v

	case *models.MenuSection:
		view.Data = buildMenu(p, sc, img)

	case *models.GallerySection:
		v := GalleryView{Title: p.Title}
		for _, gi := range p.Images {
			v.Images = append(v.Images, img(gi.Src, "gallery", gi.Alt))
		}
		view.Data = v

	case *models.FAQSection:
		v := FAQView{Title: p.Title}
		for _, it := range p.Items {
			answer, err := markdown.ToHTML(it.Answer)
			if err != nil {
				return view, fmt.Errorf("section %q: markdown: %w", s.Name, err)
			}
			v.Items = append(v.Items, FAQItemView{Question: it.Question, Answer: template.HTML(answer)})
		}
		view.Data = v

	case *models.ContactSection:
		addr := FormatAddress(sc.Business.Address)
		view.Data = ContactView{
			Title: p.Title, Message: p.Message,
			FormEnabled: p.FormEnabled, ShowMap: p.ShowMap && addr != "",
			MapQuery: addr, Address: addr,
			Phone: sc.Business.Phone, Email: sc.Business.Email,
			ReservationURL: sc.ReservationURL,
		}

	case *models.HoursSection:
		view.Data = HoursView{Title: p.Title, Note: p.Note, Hours: p.Hours}

	case *models.TestimonialsSection:
		view.Data = TestimonialsView{Title: p.Title, Items: p.Items}

	case *models.CustomSection:
		view.Data = CustomView{Title: p.Title, HTML: template.HTML(rewrite(p.HTML))}

	default:
		return view, fmt.Errorf("section %q: unsupported kind %q", s.Name, s.Kind())
	}
	return view, nil
}

func buildMenu(p *models.MenuSection, sc SectionContext, img func(ref, cat, alt string) Image) MenuView {
	v := MenuView{Title: p.Title, Intro: p.Intro, ShowPrices: p.ShowPrices}
	index := make(map[string]int)
	for _, item := range sc.MenuItems {
		if !item.Available {
			continue
		}
		if len(p.Categories) > 0 && !slices.Contains(p.Categories, item.Category) {
			continue
		}
		cat := item.Category
		if cat == "" {
			cat = "Menu"
		}
		i, ok := index[cat]
		if !ok {
			i = len(v.Categories)
			index[cat] = i
			v.Categories = append(v.Categories, MenuCategoryView{Name: cat})
		}
		iv := MenuItemView{
			Name: item.Name, Description: item.Description, Dietary: item.Dietary,
			Price: FormatPrice(item.PriceCents, sc.Business.Currency),
		}
		if item.Image != "" {
			im := img(item.Image, "menu", item.Name)
			iv.Image = &im
		}
		v.Categories[i].Items = append(v.Categories[i].Items, iv)
	}
	return v
}

var currencySymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "RON": "lei ",
	"CAD": "CA$", "AUD": "A$", "CHF": "CHF ",
}

// FormatPrice renders an amount in minor units, e.g. 1250 USD as "$12.50".
// Unknown currencies are written as a suffix code.
func FormatPrice(cents int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	amount := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if sym, ok := currencySymbols[currency]; ok {
		return sign + sym + amount
	}
	return sign + amount + " " + currency
}

// FormatAddress joins the non-empty parts of an address on one line.
func FormatAddress(a models.Address) string {
	var parts []string
	for _, p := range []string{a.Street, a.City, strings.TrimSpace(a.Region + " " + a.PostalCode), a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
