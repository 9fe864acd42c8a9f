// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"fmt"
	"regexp"
	"strings"

	"menupress/internal/models"
)

var pageSlugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// checkState reports states from which a website cannot be deployed.
func checkState(status models.WebsiteStatus) []string {
	switch status {
	case models.WebsiteStatusGenerating:
		return []string{"Website is currently being generated"}
	case models.WebsiteStatusArchived:
		return []string{"Website is archived"}
	}
	return nil
}

// Validate returns every readiness rule the website violates, in a stable
// order. An empty result means the website can be published.
func Validate(w *models.Website) []string {
	problems := checkState(w.Status)
	doc := &w.Draft

	if strings.TrimSpace(doc.WebsiteName) == "" {
		problems = append(problems, "Website name is required")
	}
	if len(doc.Pages) == 0 {
		problems = append(problems, "Website must have at least one page")
	}
	homes := 0
	for _, p := range doc.Pages {
		if p.IsHomepage {
			homes++
		}
	}
	switch {
	case homes == 0:
		problems = append(problems, "Website must have a homepage")
	case homes > 1:
		problems = append(problems, "Website must have exactly one homepage")
	}
	if strings.TrimSpace(doc.SEO.SiteTitle) == "" {
		problems = append(problems, "SEO site title is required")
	}
	if strings.TrimSpace(doc.SEO.SiteDescription) == "" {
		problems = append(problems, "SEO site description is required")
	}
	return append(problems, checkSlugs(doc.Pages)...)
}

// checkSlugs validates the slugs of non-home pages, which become file names.
func checkSlugs(pages []models.Page) []string {
	var problems []string
	seen := make(map[string]int, len(pages))
	for _, p := range pages {
		if p.IsHomepage {
			continue
		}
		name := p.Title
		if name == "" {
			name = p.ID
		}
		switch {
		case p.Slug == "":
			problems = append(problems, fmt.Sprintf("Page %q must have a slug", name))
			continue
		case p.Slug == "index":
			problems = append(problems, `Page slug "index" is reserved for the homepage`)
		case !pageSlugRe.MatchString(p.Slug):
			problems = append(problems, fmt.Sprintf("Page slug %q may only contain lowercase letters, digits and hyphens", p.Slug))
		}
		if seen[p.Slug] == 1 {
			problems = append(problems, fmt.Sprintf("Page slug %q is used more than once", p.Slug))
		}
		seen[p.Slug]++
	}
	return problems
}
