// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// WebsiteStatus represents the publishing state of a website.
type WebsiteStatus string

const (
	WebsiteStatusDraft      WebsiteStatus = "draft"
	WebsiteStatusGenerating WebsiteStatus = "generating"
	WebsiteStatusReady      WebsiteStatus = "ready"
	WebsiteStatusPublished  WebsiteStatus = "published"
	WebsiteStatusArchived   WebsiteStatus = "archived"
)

// Valid reports whether s is one of the known website states.
func (s WebsiteStatus) Valid() bool {
	switch s {
	case WebsiteStatusDraft, WebsiteStatusGenerating, WebsiteStatusReady,
		WebsiteStatusPublished, WebsiteStatusArchived:
		return true
	}
	return false
}

// Website is the root aggregate of a restaurant's marketing site. Draft
// holds the editable content; the remaining fields describe what is live.
type Website struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`

	Draft Content `json:"draft"`

	Status                WebsiteStatus `json:"status"`
	Subdomain             *string       `json:"subdomain,omitempty"`
	LiveURL               *string       `json:"live_url,omitempty"`
	PublishedContent      *Content      `json:"published_content,omitempty"`
	LastPublishedAt       *time.Time    `json:"last_published_at,omitempty"`
	HasUnpublishedChanges bool          `json:"has_unpublished_changes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished returns true if the website is currently live.
func (w *Website) IsPublished() bool {
	return w.Status == WebsiteStatusPublished
}

// SubdomainValue returns the allocated subdomain, or "" if none is set.
func (w *Website) SubdomainValue() string {
	if w.Subdomain == nil {
		return ""
	}
	return *w.Subdomain
}
