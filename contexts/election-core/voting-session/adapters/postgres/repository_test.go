package postgresadapter

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"ballotbox/contexts/election-core/voting-session/domain/entities"
	"ballotbox/contexts/election-core/voting-session/ports"
)

func TestOutboxRowsKeepBatchOrderUnderEqualTimestamps(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []ports.EventEnvelope{
		{EventID: "evt-1", EventType: "votes.tallied", OccurredAt: now},
		{EventID: "evt-2", EventType: "workflow.status_changed", OccurredAt: now},
	}

	rows, err := outboxRowsFromEvents(events, now)
	if err != nil {
		t.Fatalf("outboxRowsFromEvents returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Seq != i {
			t.Fatalf("row %d: expected seq %d, got %d", i, i, row.Seq)
		}
		if row.ID != events[i].EventID {
			t.Fatalf("row %d: expected id %q, got %q", i, events[i].EventID, row.ID)
		}
		if row.Status != outboxStatusPending {
			t.Fatalf("row %d: expected pending status, got %q", i, row.Status)
		}
		if !row.CreatedAt.Equal(now) {
			t.Fatalf("row %d: expected created_at %v, got %v", i, now, row.CreatedAt)
		}
	}
}

func TestVoterRowsFollowRegistrationOrder(t *testing.T) {
	session := entities.Session{
		SessionID:  "session-1",
		VoterOrder: []string{"alice", "bob"},
		Voters: map[string]entities.Voter{
			"alice": {IsRegistered: true, HasVoted: true, VotedProposalID: 2},
			"bob":   {IsRegistered: true},
		},
	}

	rows := voterRowsFromSession(session)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].VoterID != "alice" || rows[0].Position != 0 {
		t.Fatalf("expected alice at position 0, got %q at %d", rows[0].VoterID, rows[0].Position)
	}
	if rows[1].VoterID != "bob" || rows[1].Position != 1 {
		t.Fatalf("expected bob at position 1, got %q at %d", rows[1].VoterID, rows[1].Position)
	}
	if !rows[0].HasVoted || rows[0].VotedProposalID != 2 {
		t.Fatalf("expected alice vote state to carry over, got %+v", rows[0])
	}
	if rows[1].HasVoted {
		t.Fatalf("expected bob not to have voted, got %+v", rows[1])
	}
}

func TestProposalRowsKeepIndexIdentity(t *testing.T) {
	session := entities.Session{
		SessionID: "session-1",
		Proposals: []entities.Proposal{
			{Description: entities.GenesisProposalDescription},
			{Description: "more benches", VoteCount: 3},
		},
	}

	rows := proposalRowsFromSession(session)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ProposalID != 0 || rows[0].Description != entities.GenesisProposalDescription {
		t.Fatalf("expected genesis proposal at id 0, got %+v", rows[0])
	}
	if rows[1].ProposalID != 1 || rows[1].VoteCount != 3 {
		t.Fatalf("expected proposal 1 with 3 votes, got %+v", rows[1])
	}
}

func TestUniqueViolationDetection(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected 23505 to be detected as a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "40001"}) {
		t.Fatal("expected 40001 not to be detected as a unique violation")
	}
}
