// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"errors"
	"fmt"

	"menupress/internal/models"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrSectionNotFound = errors.New("section not found")
)

// Mutation is one edit of a draft document.
type Mutation func(doc *models.Content) error

// Apply runs the mutations against a copy of doc and returns the edited
// copy. doc itself is never modified; on error nothing is returned.
func Apply(doc models.Content, muts ...Mutation) (models.Content, error) {
	out := doc.Clone()
	for _, m := range muts {
		if err := m(&out); err != nil {
			return models.Content{}, err
		}
	}
	return out, nil
}

// SetPath returns a mutation that replaces the value at p.
func SetPath(p Path, value any) Mutation {
	return func(doc *models.Content) error {
		return Set(doc, p, value)
	}
}

// UpsertSection returns a mutation that replaces the section with the same
// name on the page, or appends it when the page has no such section.
func UpsertSection(pageID string, s models.Section) Mutation {
	return func(doc *models.Content) error {
		if s.Name == "" || s.Payload == nil {
			return fmt.Errorf("upsert section: name and payload are required")
		}
		page, err := findPage(doc, pageID)
		if err != nil {
			return err
		}
		if i := page.Sections.Index(s.Name); i >= 0 {
			page.Sections[i] = s.Clone()
			return nil
		}
		page.Sections = append(page.Sections, s.Clone())
		return nil
	}
}

// RemoveSection returns a mutation that deletes the named section from
// the page.
func RemoveSection(pageID, name string) Mutation {
	return func(doc *models.Content) error {
		page, err := findPage(doc, pageID)
		if err != nil {
			return err
		}
		i := page.Sections.Index(name)
		if i < 0 {
			return fmt.Errorf("remove section %q: %w", name, ErrSectionNotFound)
		}
		page.Sections = append(page.Sections[:i], page.Sections[i+1:]...)
		return nil
	}
}

// SetHomepage returns a mutation that flags exactly one page as homepage.
func SetHomepage(pageID string) Mutation {
	return func(doc *models.Content) error {
		if _, err := findPage(doc, pageID); err != nil {
			return err
		}
		for i := range doc.Pages {
			doc.Pages[i].IsHomepage = doc.Pages[i].ID == pageID
		}
		return nil
	}
}

func findPage(doc *models.Content, pageID string) (*models.Page, error) {
	for i := range doc.Pages {
		if doc.Pages[i].ID == pageID {
			return &doc.Pages[i], nil
		}
	}
	return nil, fmt.Errorf("page %q: %w", pageID, ErrPageNotFound)
}
