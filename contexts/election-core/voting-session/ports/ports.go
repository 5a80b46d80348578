package ports

import (
	"context"
	"encoding/json"
	"time"

	"ballotbox/contexts/election-core/voting-session/domain/entities"
)

// SessionRepository persists whole session aggregates. SaveSession must
// commit the aggregate and the accompanying outbox events atomically; a
// failed save leaves both untouched.
type SessionRepository interface {
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
	SaveSession(ctx context.Context, session entities.Session, events []EventEnvelope) error
}

// OwnershipRegistry is the external admin-role capability. The session core
// never stores the administrator identity itself; it resolves the current
// owner on every admin-gated call.
type OwnershipRegistry interface {
	Owner(ctx context.Context, resourceID string) (string, error)
	AssignOwner(ctx context.Context, resourceID string, ownerID string) error
}

// EventEnvelope is the canonical audit event shape written to the outbox.
type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID    string
	EventType   string
	Payload     []byte
	Status      string
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// OutboxRepository feeds the relay worker. Pending rows come back in the
// order the events were appended.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a handler for a topic. The subscription stays
// active until ctx is cancelled.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
