package unit

import (
	"context"
	"testing"
	"time"

	"ballotbox/contexts/election-core/voting-session/adapters/memory"
	"ballotbox/contexts/election-core/voting-session/application/workers"
	"ballotbox/contexts/election-core/voting-session/domain/entities"
	"ballotbox/contexts/election-core/voting-session/ports"
)

type recordingPublisher struct {
	topics []string
	events []ports.EventEnvelope
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestOutboxRelayPublishesInAppendOrder(t *testing.T) {
	store := memory.NewStore(nil)
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	session := entities.NewSession("session-1", now)

	appended := []ports.EventEnvelope{
		{EventID: "evt-1", EventType: "session.created", OccurredAt: now, PartitionKey: "session-1"},
		{EventID: "evt-2", EventType: "voter.registered", OccurredAt: now.Add(time.Second), PartitionKey: "session-1"},
		{EventID: "evt-3", EventType: "workflow.status_changed", OccurredAt: now.Add(2 * time.Second), PartitionKey: "session-1"},
	}
	if err := store.SaveSession(context.Background(), session, appended); err != nil {
		t.Fatalf("save: %v", err)
	}

	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run: %v", err)
	}

	if len(publisher.events) != 3 {
		t.Fatalf("published %d events, want 3", len(publisher.events))
	}
	for i, event := range publisher.events {
		if event.EventID != appended[i].EventID {
			t.Fatalf("event %d = %s, want %s", i, event.EventID, appended[i].EventID)
		}
		if publisher.topics[i] != appended[i].EventType {
			t.Fatalf("topic %d = %s, want event type %s", i, publisher.topics[i], appended[i].EventType)
		}
	}

	// A second run finds nothing pending.
	publisher.events = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no republished events, got %d", len(publisher.events))
	}
}
