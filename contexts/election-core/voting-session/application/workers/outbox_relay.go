package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "ballotbox/contexts/election-core/voting-session/application"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// OutboxRelay publishes persisted audit events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows in append order
// and marks each row published only after the bus accepted it. It stops on
// the first failure so the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("session outbox list failed",
			"event", "session_outbox_list_failed",
			"module", "election-core/voting-session",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("session outbox relay found no pending rows",
			"event", "session_outbox_relay_noop",
			"module", "election-core/voting-session",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("session outbox decode failed",
				"event", "session_outbox_decode_failed",
				"module", "election-core/voting-session",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("session outbox publish failed",
				"event", "session_outbox_publish_failed",
				"module", "election-core/voting-session",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("session outbox mark published failed",
				"event", "session_outbox_mark_published_failed",
				"module", "election-core/voting-session",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("session outbox relay cycle completed",
		"event", "session_outbox_relay_completed",
		"module", "election-core/voting-session",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}
