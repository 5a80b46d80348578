package events

import (
	"context"
	"log/slog"

	"ballotbox/contexts/identity-access/ownership-service/ports"
)

// Publisher logs ownership-change events. Ownership changes are low-volume
// administrative actions; the structured log line is their audit record until
// a broker-backed sink is wired in.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p Publisher) PublishOwnershipChanged(_ context.Context, event ports.OwnershipChangedEvent) error {
	p.logger.Info("ownership changed event published",
		"event", "ownership_changed_published",
		"module", "identity-access/ownership-service",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"resource_id", event.ResourceID,
		"new_owner", event.NewOwner,
	)
	return nil
}
