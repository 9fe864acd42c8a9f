// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events announces website lifecycle changes to other services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names a lifecycle transition.
type Kind string

const (
	KindPublished     Kind = "published"
	KindPublishFailed Kind = "publish_failed"
	KindUnpublished   Kind = "unpublished"
	KindRolledBack    Kind = "rolled_back"
)

// Event describes one transition of a website.
type Event struct {
	Kind         Kind       `json:"kind"`
	WebsiteID    uuid.UUID  `json:"website_id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	Subdomain    string     `json:"subdomain,omitempty"`
	LiveURL      string     `json:"live_url,omitempty"`
	DeploymentID *uuid.UUID `json:"deployment_id,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Publisher delivers events. Delivery failures are reported but never undo
// the transition that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NoopPublisher drops every event (default when NATS is not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
