package commands

import (
	"context"
	"log/slog"
	"strings"

	application "ballotbox/contexts/election-core/voting-session/application"
	"ballotbox/contexts/election-core/voting-session/domain/entities"
	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// SessionUseCase orchestrates every state-mutating session operation: it
// resolves the caller against the external ownership capability where the
// operation is admin-gated, applies the domain mutation on a loaded copy of
// the aggregate, and persists aggregate plus audit events in one repository
// call. A failed precondition returns before anything is persisted.
type SessionUseCase struct {
	Sessions  ports.SessionRepository
	Ownership ports.OwnershipRegistry
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CreateSessionCommand opens a new session with the caller as administrator.
type CreateSessionCommand struct {
	AdminID string
}

type CreateSessionResult struct {
	Session entities.Session
	AdminID string
}

func (uc SessionUseCase) CreateSession(ctx context.Context, cmd CreateSessionCommand) (CreateSessionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	adminID := strings.TrimSpace(cmd.AdminID)
	if adminID == "" {
		return CreateSessionResult{}, domainerrors.ErrInvalidSessionInput
	}

	sessionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CreateSessionResult{}, err
	}
	now := uc.Clock.Now()
	session := entities.NewSession(sessionID, now)

	if err := uc.Ownership.AssignOwner(ctx, sessionID, adminID); err != nil {
		logger.Error("session owner assignment failed",
			"event", "session_create_owner_assign_failed",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return CreateSessionResult{}, err
	}

	created, err := uc.newEnvelope(ctx, EventSessionCreated, sessionID, now, map[string]any{
		"session_id": sessionID,
		"admin_id":   adminID,
		"status":     session.Status.String(),
	})
	if err != nil {
		return CreateSessionResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{created}); err != nil {
		return CreateSessionResult{}, err
	}

	logger.Info("voting session created",
		"event", "session_created",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", sessionID,
		"admin_id", adminID,
	)
	return CreateSessionResult{Session: session, AdminID: adminID}, nil
}

// RegisterVoterCommand adds an identity to the voter registry.
type RegisterVoterCommand struct {
	SessionID string
	CallerID  string
	VoterID   string
}

func (uc SessionUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterID)
	if voterID == "" {
		return entities.Voter{}, domainerrors.ErrInvalidSessionInput
	}
	if err := uc.requireAdmin(ctx, cmd.SessionID, cmd.CallerID); err != nil {
		return entities.Voter{}, err
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return entities.Voter{}, err
	}
	now := uc.Clock.Now()
	if err := session.RegisterVoter(voterID, now); err != nil {
		logger.Warn("voter registration rejected",
			"event", "session_register_voter_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"voter_id", voterID,
			"error", err.Error(),
		)
		return entities.Voter{}, err
	}

	registered, err := uc.newEnvelope(ctx, EventVoterRegistered, session.SessionID, now, map[string]any{
		"session_id": session.SessionID,
		"voter_id":   voterID,
	})
	if err != nil {
		return entities.Voter{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{registered}); err != nil {
		return entities.Voter{}, err
	}

	logger.Info("voter registered",
		"event", "session_voter_registered",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"voter_id", voterID,
	)
	return session.VoterFor(voterID), nil
}

// SubmitProposalCommand appends a proposal on behalf of a registered voter.
type SubmitProposalCommand struct {
	SessionID   string
	CallerID    string
	Description string
}

type SubmitProposalResult struct {
	ProposalID  int
	Description string
}

func (uc SessionUseCase) SubmitProposal(ctx context.Context, cmd SubmitProposalCommand) (SubmitProposalResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	callerID := strings.TrimSpace(cmd.CallerID)
	if callerID == "" {
		return SubmitProposalResult{}, domainerrors.ErrInvalidSessionInput
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return SubmitProposalResult{}, err
	}
	now := uc.Clock.Now()
	proposalID, err := session.SubmitProposal(callerID, cmd.Description, now)
	if err != nil {
		logger.Warn("proposal submission rejected",
			"event", "session_submit_proposal_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"voter_id", callerID,
			"error", err.Error(),
		)
		return SubmitProposalResult{}, err
	}

	submitted, err := uc.newEnvelope(ctx, EventProposalRegistered, session.SessionID, now, map[string]any{
		"session_id":  session.SessionID,
		"proposal_id": proposalID,
		"description": cmd.Description,
		"voter_id":    callerID,
	})
	if err != nil {
		return SubmitProposalResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{submitted}); err != nil {
		return SubmitProposalResult{}, err
	}

	logger.Info("proposal registered",
		"event", "session_proposal_registered",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"proposal_id", proposalID,
		"voter_id", callerID,
	)
	return SubmitProposalResult{ProposalID: proposalID, Description: cmd.Description}, nil
}

// CastVoteCommand records the caller's single vote for a proposal index.
type CastVoteCommand struct {
	SessionID  string
	CallerID   string
	ProposalID int
}

type CastVoteResult struct {
	ProposalID int
	VoteCount  int
}

func (uc SessionUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	callerID := strings.TrimSpace(cmd.CallerID)
	if callerID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidSessionInput
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return CastVoteResult{}, err
	}
	now := uc.Clock.Now()
	if err := session.CastVote(callerID, cmd.ProposalID, now); err != nil {
		logger.Warn("vote rejected",
			"event", "session_cast_vote_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"voter_id", callerID,
			"proposal_id", cmd.ProposalID,
			"error", err.Error(),
		)
		return CastVoteResult{}, err
	}

	cast, err := uc.newEnvelope(ctx, EventVoteCast, session.SessionID, now, map[string]any{
		"session_id":  session.SessionID,
		"voter_id":    callerID,
		"proposal_id": cmd.ProposalID,
	})
	if err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{cast}); err != nil {
		return CastVoteResult{}, err
	}

	proposal, err := session.ProposalAt(cmd.ProposalID)
	if err != nil {
		return CastVoteResult{}, err
	}
	logger.Info("vote cast",
		"event", "session_vote_cast",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"voter_id", callerID,
		"proposal_id", cmd.ProposalID,
	)
	return CastVoteResult{ProposalID: cmd.ProposalID, VoteCount: proposal.VoteCount}, nil
}

func (uc SessionUseCase) requireAdmin(ctx context.Context, sessionID string, callerID string) error {
	caller := strings.TrimSpace(callerID)
	if caller == "" {
		return domainerrors.ErrUnauthorized
	}
	owner, err := uc.Ownership.Owner(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return err
	}
	if owner == "" || owner != caller {
		return domainerrors.ErrUnauthorized
	}
	return nil
}
