package commands

import (
	"context"
	"encoding/json"
	"time"

	"ballotbox/contexts/election-core/voting-session/ports"
)

const (
	EventSessionCreated        = "session.created"
	EventVoterRegistered       = "voter.registered"
	EventProposalRegistered    = "proposal.registered"
	EventVoteCast              = "vote.cast"
	EventVotesTallied          = "votes.tallied"
	EventSessionReset          = "session.reset"
	EventWorkflowStatusChanged = "workflow.status_changed"
)

func (uc SessionUseCase) newEnvelope(
	ctx context.Context,
	eventType string,
	sessionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Audit events are partitioned by session so per-session consumers see
	// them in the exact serialized call order.
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-session",
		SchemaVersion:    1,
		PartitionKeyPath: "session_id",
		PartitionKey:     sessionID,
		Data:             payload,
	}, nil
}

func statusChangedData(sessionID string, previous string, next string) map[string]any {
	return map[string]any{
		"session_id":      sessionID,
		"previous_status": previous,
		"new_status":      next,
	}
}
