package workers

import (
	"context"
	"log/slog"

	application "ballotbox/contexts/election-core/voting-session/application"
	"ballotbox/contexts/election-core/voting-session/application/commands"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// AuditTopics lists every session event topic the relay publishes.
func AuditTopics() []string {
	return []string{
		commands.EventSessionCreated,
		commands.EventVoterRegistered,
		commands.EventProposalRegistered,
		commands.EventVoteCast,
		commands.EventVotesTallied,
		commands.EventSessionReset,
		commands.EventWorkflowStatusChanged,
	}
}

// AuditTrailConsumer mirrors relayed session events into the structured
// audit log, one record per delivered envelope.
type AuditTrailConsumer struct {
	Subscriber    ports.EventSubscriber
	Topics        []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// Start subscribes the consumer to every configured topic. Subscriptions
// live until ctx is cancelled.
func (c AuditTrailConsumer) Start(ctx context.Context) error {
	topics := c.Topics
	if len(topics) == 0 {
		topics = AuditTopics()
	}
	for _, topic := range topics {
		topic := topic
		if err := c.Subscriber.Subscribe(ctx, topic, c.ConsumerGroup, func(ctx context.Context, event ports.EventEnvelope) error {
			return c.record(ctx, topic, event)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c AuditTrailConsumer) record(_ context.Context, topic string, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	logger.Info("session audit event recorded",
		"event", "session_audit_recorded",
		"module", "election-core/voting-session",
		"layer", "worker",
		"topic", topic,
		"consumer_group", c.ConsumerGroup,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"session_id", event.PartitionKey,
		"payload", string(event.Data),
	)
	return nil
}
