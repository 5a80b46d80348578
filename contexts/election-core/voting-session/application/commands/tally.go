package commands

import (
	"context"
	"strings"

	application "ballotbox/contexts/election-core/voting-session/application"
	"ballotbox/contexts/election-core/voting-session/domain/entities"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// TallyVotesCommand closes the election and computes the result.
type TallyVotesCommand struct {
	SessionID string
	CallerID  string
}

type TallyVotesResult struct {
	WinningProposalID int
	IsTie             bool
	WinningProposal   entities.Proposal
}

func (uc SessionUseCase) TallyVotes(ctx context.Context, cmd TallyVotesCommand) (TallyVotesResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.SessionID, cmd.CallerID); err != nil {
		return TallyVotesResult{}, err
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return TallyVotesResult{}, err
	}
	previous := session.Status
	now := uc.Clock.Now()
	if err := session.TallyVotes(now); err != nil {
		logger.Warn("tally rejected",
			"event", "session_tally_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"status", previous.String(),
			"error", err.Error(),
		)
		return TallyVotesResult{}, err
	}

	tallied, err := uc.newEnvelope(ctx, EventVotesTallied, session.SessionID, now, map[string]any{
		"session_id":          session.SessionID,
		"winning_proposal_id": session.WinningProposalID,
		"is_tie":              session.IsTie,
		"proposal_count":      len(session.Proposals),
	})
	if err != nil {
		return TallyVotesResult{}, err
	}
	changed, err := uc.newEnvelope(ctx, EventWorkflowStatusChanged, session.SessionID, now,
		statusChangedData(session.SessionID, previous.String(), session.Status.String()))
	if err != nil {
		return TallyVotesResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{tallied, changed}); err != nil {
		return TallyVotesResult{}, err
	}

	winner, err := session.ProposalAt(session.WinningProposalID)
	if err != nil {
		return TallyVotesResult{}, err
	}
	logger.Info("votes tallied",
		"event", "session_votes_tallied",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"winning_proposal_id", session.WinningProposalID,
		"is_tie", session.IsTie,
	)
	return TallyVotesResult{
		WinningProposalID: session.WinningProposalID,
		IsTie:             session.IsTie,
		WinningProposal:   winner,
	}, nil
}

// ResetVotingCommand starts a fresh round for the same electorate.
type ResetVotingCommand struct {
	SessionID string
	CallerID  string
}

type ResetVotingResult struct {
	Status          entities.WorkflowStatus
	RegisteredCount int
}

func (uc SessionUseCase) ResetVoting(ctx context.Context, cmd ResetVotingCommand) (ResetVotingResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.SessionID, cmd.CallerID); err != nil {
		return ResetVotingResult{}, err
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return ResetVotingResult{}, err
	}
	previous := session.Status
	now := uc.Clock.Now()
	if err := session.Reset(now); err != nil {
		logger.Warn("reset rejected",
			"event", "session_reset_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"status", previous.String(),
			"error", err.Error(),
		)
		return ResetVotingResult{}, err
	}

	reset, err := uc.newEnvelope(ctx, EventSessionReset, session.SessionID, now, map[string]any{
		"session_id":       session.SessionID,
		"registered_count": len(session.VoterOrder),
	})
	if err != nil {
		return ResetVotingResult{}, err
	}
	changed, err := uc.newEnvelope(ctx, EventWorkflowStatusChanged, session.SessionID, now,
		statusChangedData(session.SessionID, previous.String(), session.Status.String()))
	if err != nil {
		return ResetVotingResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{reset, changed}); err != nil {
		return ResetVotingResult{}, err
	}

	logger.Info("session reset",
		"event", "session_reset",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"registered_count", len(session.VoterOrder),
	)
	return ResetVotingResult{Status: session.Status, RegisteredCount: len(session.VoterOrder)}, nil
}
