// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"slices"
)

// SectionKind identifies the payload type carried by a Section.
type SectionKind string

const (
	SectionHero         SectionKind = "hero"
	SectionAbout        SectionKind = "about"
	SectionMenu         SectionKind = "menu"
	SectionGallery      SectionKind = "gallery"
	SectionFAQ          SectionKind = "faq"
	SectionContact      SectionKind = "contact"
	SectionHours        SectionKind = "hours"
	SectionTestimonials SectionKind = "testimonials"
	SectionCustom       SectionKind = "custom"
)

// NewSectionPayload returns an empty payload for kind, or an error if the
// kind is unknown.
func NewSectionPayload(kind SectionKind) (SectionPayload, error) {
	switch kind {
	case SectionHero:
		return &HeroSection{}, nil
	case SectionAbout:
		return &AboutSection{}, nil
	case SectionMenu:
		return &MenuSection{}, nil
	case SectionGallery:
		return &GallerySection{}, nil
	case SectionFAQ:
		return &FAQSection{}, nil
	case SectionContact:
		return &ContactSection{}, nil
	case SectionHours:
		return &HoursSection{}, nil
	case SectionTestimonials:
		return &TestimonialsSection{}, nil
	case SectionCustom:
		return &CustomSection{}, nil
	}
	return nil, fmt.Errorf("unknown section kind %q", kind)
}

// SectionPayload is implemented by the pointer types of every section kind
// in this package. The unexported method keeps the set closed.
type SectionPayload interface {
	Kind() SectionKind
	clonePayload() SectionPayload
}

// Section is a named, typed block of page content.
type Section struct {
	Name    string
	Payload SectionPayload
}

// Kind returns the kind of the section's payload, or "" for an empty section.
func (s Section) Kind() SectionKind {
	if s.Payload == nil {
		return ""
	}
	return s.Payload.Kind()
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	out := Section{Name: s.Name}
	if s.Payload != nil {
		out.Payload = s.Payload.clonePayload()
	}
	return out
}

type sectionJSON struct {
	Name string          `json:"name"`
	Kind SectionKind     `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the section as {"name", "kind", "data"}.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Payload == nil {
		return nil, fmt.Errorf("section %q has no payload", s.Name)
	}
	data, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal section %q: %w", s.Name, err)
	}
	return json.Marshal(sectionJSON{Name: s.Name, Kind: s.Payload.Kind(), Data: data})
}

// UnmarshalJSON decodes the payload according to the "kind" discriminator.
// Unknown kinds are rejected.
func (s *Section) UnmarshalJSON(b []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	payload, err := NewSectionPayload(raw.Kind)
	if err != nil {
		return err
	}
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, payload); err != nil {
			return fmt.Errorf("decode %s section %q: %w", raw.Kind, raw.Name, err)
		}
	}
	s.Name = raw.Name
	s.Payload = payload
	return nil
}

// Sections is the ordered list of sections on a page. Names are unique
// within one page.
type Sections []Section

// Index returns the position of the section called name, or -1.
func (ss Sections) Index(name string) int {
	return slices.IndexFunc(ss, func(s Section) bool { return s.Name == name })
}

// Get returns the section called name.
func (ss Sections) Get(name string) (Section, bool) {
	i := ss.Index(name)
	if i < 0 {
		return Section{}, false
	}
	return ss[i], true
}

// Clone returns a deep copy of the list.
func (ss Sections) Clone() Sections {
	if ss == nil {
		return nil
	}
	out := make(Sections, len(ss))
	for i, s := range ss {
		out[i] = s.Clone()
	}
	return out
}

// HeroSection is the full-width banner at the top of a page.
type HeroSection struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
	CTALink     string `json:"cta_link"`
	Image       string `json:"image"` // falls back to Content.HeroImage
}

func (*HeroSection) Kind() SectionKind { return SectionHero }

func (h *HeroSection) clonePayload() SectionPayload { c := *h; return &c }

// AboutSection is a story block. Body is markdown.
type AboutSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image"`
}

func (*AboutSection) Kind() SectionKind { return SectionAbout }

func (a *AboutSection) clonePayload() SectionPayload { c := *a; return &c }

// MenuSection lists the website's menu items, optionally filtered to a set
// of categories.
type MenuSection struct {
	Title      string   `json:"title"`
	Intro      string   `json:"intro"`
	Categories []string `json:"categories"`
	ShowPrices bool     `json:"show_prices"`
}

func (*MenuSection) Kind() SectionKind { return SectionMenu }

func (m *MenuSection) clonePayload() SectionPayload {
	c := *m
	c.Categories = slices.Clone(m.Categories)
	return &c
}

// GalleryImage is one picture in a gallery section.
type GalleryImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// GallerySection is a grid of photos.
type GallerySection struct {
	Title  string         `json:"title"`
	Images []GalleryImage `json:"images"`
}

func (*GallerySection) Kind() SectionKind { return SectionGallery }

func (g *GallerySection) clonePayload() SectionPayload {
	c := *g
	c.Images = slices.Clone(g.Images)
	return &c
}

// FAQItem is one question and its markdown answer.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQSection is a list of frequently asked questions.
type FAQSection struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

func (*FAQSection) Kind() SectionKind { return SectionFAQ }

func (f *FAQSection) clonePayload() SectionPayload {
	c := *f
	c.Items = slices.Clone(f.Items)
	return &c
}

// ContactSection shows the business contact block and an optional form.
type ContactSection struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	FormEnabled bool   `json:"form_enabled"`
	ShowMap     bool   `json:"show_map"`
}

func (*ContactSection) Kind() SectionKind { return SectionContact }

func (c *ContactSection) clonePayload() SectionPayload { d := *c; return &d }

// OpeningHours is one row of the opening-hours table. Times are "HH:MM".
type OpeningHours struct {
	Day    string `json:"day"`
	Opens  string `json:"opens"`
	Closes string `json:"closes"`
	Closed bool   `json:"closed"`
}

// HoursSection is the opening-hours table.
type HoursSection struct {
	Title string         `json:"title"`
	Hours []OpeningHours `json:"hours"`
	Note  string         `json:"note"`
}

func (*HoursSection) Kind() SectionKind { return SectionHours }

func (h *HoursSection) clonePayload() SectionPayload {
	c := *h
	c.Hours = slices.Clone(h.Hours)
	return &c
}

// Testimonial is a single customer quote.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Rating int    `json:"rating"`
}

// TestimonialsSection is a list of customer quotes.
type TestimonialsSection struct {
	Title string        `json:"title"`
	Items []Testimonial `json:"items"`
}

func (*TestimonialsSection) Kind() SectionKind { return SectionTestimonials }

func (t *TestimonialsSection) clonePayload() SectionPayload {
	c := *t
	c.Items = slices.Clone(t.Items)
	return &c
}

// CustomSection is owner-supplied HTML rendered as-is.
type CustomSection struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

func (*CustomSection) Kind() SectionKind { return SectionCustom }

func (c *CustomSection) clonePayload() SectionPayload { d := *c; return &d }
