// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamName is the JetStream stream holding website events.
const StreamName = "MENUPRESS_WEBSITES"

// NATSPublisher publishes events to JetStream on "{subject}.{kind}".
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to NATS and makes sure the event stream exists.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("menupress"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Website lifecycle events",
		Subjects:    []string{subject + ".>"},
		MaxAge:      30 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create stream %s: %w", StreamName, err)
	}

	slog.Info("NATS event publisher initialized", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, js: js, subject: subject}, nil
}

// Subject returns the subject an event kind is published on.
func (p *NATSPublisher) Subject(k Kind) string {
	return p.subject + "." + string(k)
}

// Publish sends e and waits for the stream acknowledgement.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := p.js.Publish(ctx, p.Subject(e.Kind), data); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Kind, err)
	}
	slog.Debug("published website event", "kind", e.Kind, "website_id", e.WebsiteID)
	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
