package unit

import (
	"context"
	"errors"
	"testing"

	votingsession "ballotbox/contexts/election-core/voting-session"
	ownerbridge "ballotbox/contexts/election-core/voting-session/adapters/ownership"
	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	httptransport "ballotbox/contexts/election-core/voting-session/transport/http"
	ownership "ballotbox/contexts/identity-access/ownership-service"
)

func newVotingFixture() (votingsession.Module, ownership.Module) {
	ownershipModule := ownership.NewInMemoryModule(nil)
	votingModule := votingsession.NewInMemoryModule(ownerbridge.Registry{
		Ownership: ownershipModule.Ownership,
		Queries:   ownershipModule.Queries,
	}, nil)
	return votingModule, ownershipModule
}

func TestFullElectionLifecycle(t *testing.T) {
	module, _ := newVotingFixture()
	ctx := context.Background()

	created, err := module.Handler.CreateSessionHandler(ctx, "admin")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	sessionID := created.SessionID
	if created.Status != "registering_voters" {
		t.Fatalf("new session status = %q", created.Status)
	}

	for _, voter := range []string{"alice", "bob", "carol"} {
		if _, err := module.Handler.RegisterVoterHandler(ctx, sessionID, "admin", httptransport.RegisterVoterRequest{VoterID: voter}); err != nil {
			t.Fatalf("register %s: %v", voter, err)
		}
	}

	if _, err := module.Handler.StartProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start proposals: %v", err)
	}
	first, err := module.Handler.SubmitProposalHandler(ctx, sessionID, "alice", httptransport.SubmitProposalRequest{Description: "more parks"})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if first.ProposalID != 1 {
		t.Fatalf("first proposal id = %d, want 1 after the reserved slot", first.ProposalID)
	}
	second, err := module.Handler.SubmitProposalHandler(ctx, sessionID, "bob", httptransport.SubmitProposalRequest{Description: "bike lanes"})
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}
	if _, err := module.Handler.EndProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("end proposals: %v", err)
	}
	if _, err := module.Handler.StartVotingSessionHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start voting: %v", err)
	}

	for _, vote := range []struct {
		voter      string
		proposalID int
	}{
		{"alice", first.ProposalID},
		{"bob", first.ProposalID},
		{"carol", second.ProposalID},
	} {
		if _, err := module.Handler.CastVoteHandler(ctx, sessionID, vote.voter, httptransport.CastVoteRequest{ProposalID: vote.proposalID}); err != nil {
			t.Fatalf("cast %s: %v", vote.voter, err)
		}
	}

	if _, err := module.Handler.EndVotingSessionHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("end voting: %v", err)
	}
	tally, err := module.Handler.TallyVotesHandler(ctx, sessionID, "admin")
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.WinningProposalID != first.ProposalID || tally.IsTie {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if tally.VoteCount != 2 || tally.Description != "more parks" {
		t.Fatalf("unexpected winning proposal %+v", tally)
	}

	status, err := module.Handler.SessionStatusHandler(ctx, sessionID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Tallied || status.WinningProposalID == nil || *status.WinningProposalID != first.ProposalID {
		t.Fatalf("unexpected status view %+v", status)
	}
}

func TestResetStartsFreshRoundWithSameElectorate(t *testing.T) {
	module, _ := newVotingFixture()
	ctx := context.Background()

	created, err := module.Handler.CreateSessionHandler(ctx, "admin")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	sessionID := created.SessionID

	for _, voter := range []string{"alice", "bob"} {
		if _, err := module.Handler.RegisterVoterHandler(ctx, sessionID, "admin", httptransport.RegisterVoterRequest{VoterID: voter}); err != nil {
			t.Fatalf("register %s: %v", voter, err)
		}
	}
	if _, err := module.Handler.StartProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start proposals: %v", err)
	}
	proposal, err := module.Handler.SubmitProposalHandler(ctx, sessionID, "alice", httptransport.SubmitProposalRequest{Description: "more parks"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := module.Handler.EndProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("end proposals: %v", err)
	}
	if _, err := module.Handler.StartVotingSessionHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start voting: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, sessionID, "alice", httptransport.CastVoteRequest{ProposalID: proposal.ProposalID}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if _, err := module.Handler.EndVotingSessionHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("end voting: %v", err)
	}
	if _, err := module.Handler.TallyVotesHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("tally: %v", err)
	}

	reset, err := module.Handler.ResetVotingHandler(ctx, sessionID, "admin")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Status != "registering_voters" || reset.RegisteredVoters != 2 {
		t.Fatalf("unexpected reset response %+v", reset)
	}

	// Registration survives, so re-registering is still a conflict.
	_, err = module.Handler.RegisterVoterHandler(ctx, sessionID, "admin", httptransport.RegisterVoterRequest{VoterID: "alice"})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected already registered after reset, got %v", err)
	}

	// Ballot state does not: alice can vote again in the next round.
	if _, err := module.Handler.StartProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start proposals round two: %v", err)
	}
	next, err := module.Handler.SubmitProposalHandler(ctx, sessionID, "bob", httptransport.SubmitProposalRequest{Description: "night buses"})
	if err != nil {
		t.Fatalf("submit round two: %v", err)
	}
	if next.ProposalID != 1 {
		t.Fatalf("round two first proposal id = %d, want 1", next.ProposalID)
	}
	if _, err := module.Handler.EndProposalsRegisteringHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("end proposals round two: %v", err)
	}
	if _, err := module.Handler.StartVotingSessionHandler(ctx, sessionID, "admin"); err != nil {
		t.Fatalf("start voting round two: %v", err)
	}
	if _, err := module.Handler.CastVoteHandler(ctx, sessionID, "alice", httptransport.CastVoteRequest{ProposalID: next.ProposalID}); err != nil {
		t.Fatalf("alice should vote again after reset: %v", err)
	}
}

func TestAdminGateAndVoterGate(t *testing.T) {
	module, _ := newVotingFixture()
	ctx := context.Background()

	created, err := module.Handler.CreateSessionHandler(ctx, "admin")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	sessionID := created.SessionID

	_, err = module.Handler.RegisterVoterHandler(ctx, sessionID, "intruder", httptransport.RegisterVoterRequest{VoterID: "alice"})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = module.Handler.StartProposalsRegisteringHandler(ctx, sessionID, "intruder")
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized transition, got %v", err)
	}

	if _, err := module.Handler.RegisterVoterHandler(ctx, sessionID, "admin", httptransport.RegisterVoterRequest{VoterID: "alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err = module.Handler.GetVoterHandler(ctx, sessionID, "outsider", "alice")
	if !errors.Is(err, domainerrors.ErrNotVoter) {
		t.Fatalf("expected voter-only read to reject outsider, got %v", err)
	}
	if _, err := module.Handler.GetVoterHandler(ctx, sessionID, "alice", "alice"); err != nil {
		t.Fatalf("voter read: %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	module, _ := newVotingFixture()
	_, err := module.Handler.SessionStatusHandler(context.Background(), "no-such-session")
	if !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}
