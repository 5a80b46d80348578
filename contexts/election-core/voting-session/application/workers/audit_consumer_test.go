package workers

import (
	"context"
	"encoding/json"
	"testing"

	"ballotbox/contexts/election-core/voting-session/ports"
)

type recordingSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   map[string]string
}

func (s *recordingSubscriber) Subscribe(_ context.Context, topic string, consumerGroup string, handler func(context.Context, ports.EventEnvelope) error) error {
	if s.handlers == nil {
		s.handlers = make(map[string]func(context.Context, ports.EventEnvelope) error)
		s.groups = make(map[string]string)
	}
	s.handlers[topic] = handler
	s.groups[topic] = consumerGroup
	return nil
}

func TestAuditTrailConsumerSubscribesEverySessionTopic(t *testing.T) {
	sub := &recordingSubscriber{}
	consumer := AuditTrailConsumer{Subscriber: sub, ConsumerGroup: "voting-session-audit-cg"}

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	topics := AuditTopics()
	if len(sub.handlers) != len(topics) {
		t.Fatalf("expected %d subscriptions, got %d", len(topics), len(sub.handlers))
	}
	for _, topic := range topics {
		handler, ok := sub.handlers[topic]
		if !ok {
			t.Fatalf("expected a subscription for topic %q", topic)
		}
		if group := sub.groups[topic]; group != "voting-session-audit-cg" {
			t.Fatalf("topic %q: expected consumer group voting-session-audit-cg, got %q", topic, group)
		}
		event := ports.EventEnvelope{
			EventID:      "evt-" + topic,
			EventType:    topic,
			PartitionKey: "session-1",
			Data:         json.RawMessage(`{"session_id":"session-1"}`),
		}
		if err := handler(context.Background(), event); err != nil {
			t.Fatalf("topic %q: handler returned error: %v", topic, err)
		}
	}
}
