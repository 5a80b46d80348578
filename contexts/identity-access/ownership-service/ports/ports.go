package ports

import (
	"context"
	"time"

	"ballotbox/contexts/identity-access/ownership-service/domain/entities"
)

type OwnerRepository interface {
	SaveOwner(ctx context.Context, record entities.OwnerRecord) error
	GetOwner(ctx context.Context, resourceID string) (entities.OwnerRecord, error)
}

// OwnershipChangedEvent is the module event emitted on assignment/transfer.
type OwnershipChangedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ResourceID    string    `json:"resource_id"`
	PreviousOwner string    `json:"previous_owner,omitempty"`
	NewOwner      string    `json:"new_owner"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher publishes module events through the event bus adapter.
type EventPublisher interface {
	PublishOwnershipChanged(ctx context.Context, event OwnershipChangedEvent) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
