package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// testPublisher connects to a local NATS server with JetStream enabled.
// Skips if NATS is unavailable.
func testPublisher(t *testing.T) *NATSPublisher {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	p, err := NewNATSPublisher(url, "menupress-test.websites")
	if err != nil {
		t.Skipf("skipping integration test: NATS not reachable: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestEventJSON(t *testing.T) {
	dep := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	e := Event{
		Kind:         KindPublished,
		WebsiteID:    uuid.Nil,
		Subdomain:    "joes-pizza",
		DeploymentID: &dep,
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["kind"] != "published" || got["subdomain"] != "joes-pizza" || got["deployment_id"] != dep.String() {
		t.Errorf("event = %s", data)
	}
	if _, ok := got["errors"]; ok {
		t.Error("empty errors should be omitted")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).Publish(context.Background(), Event{Kind: KindUnpublished}); err != nil {
		t.Errorf("Publish: %v", err)
	}
}

func TestNATSPublish(t *testing.T) {
	p := testPublisher(t)
	ctx := context.Background()

	if got := p.Subject(KindRolledBack); got != "menupress-test.websites.rolled_back" {
		t.Errorf("Subject = %q", got)
	}

	id := uuid.New()
	if err := p.Publish(ctx, Event{Kind: KindPublished, WebsiteID: id, Subdomain: "joes-pizza"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	cons, err := p.js.OrderedConsumer(ctx, StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{p.Subject(KindPublished)},
		DeliverPolicy:  jetstream.DeliverLastPolicy,
	})
	if err != nil {
		t.Fatalf("OrderedConsumer: %v", err)
	}
	msg, err := cons.Next(jetstream.FetchMaxWait(2 * time.Second))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	var e Event
	if err := json.Unmarshal(msg.Data(), &e); err != nil {
		t.Fatal(err)
	}
	if e.WebsiteID != id || e.Timestamp.IsZero() {
		t.Errorf("received %+v", e)
	}
}
