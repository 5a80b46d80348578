package queries

import (
	"context"
	"strings"

	"ballotbox/contexts/election-core/voting-session/domain/entities"
	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// SessionQueries serves the read side. Voter and proposal lookups are gated
// on the caller being a registered voter; the session status view is public.
type SessionQueries struct {
	Sessions ports.SessionRepository
}

func (uc SessionQueries) GetVoter(ctx context.Context, sessionID string, callerID string, voterID string) (entities.Voter, error) {
	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Voter{}, err
	}
	if !session.IsRegisteredVoter(strings.TrimSpace(callerID)) {
		return entities.Voter{}, domainerrors.ErrNotVoter
	}
	return session.VoterFor(strings.TrimSpace(voterID)), nil
}

func (uc SessionQueries) GetProposal(ctx context.Context, sessionID string, callerID string, proposalID int) (entities.Proposal, error) {
	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if !session.IsRegisteredVoter(strings.TrimSpace(callerID)) {
		return entities.Proposal{}, domainerrors.ErrNotVoter
	}
	return session.ProposalAt(proposalID)
}

// SessionStatus is the public view of a session.
type SessionStatus struct {
	SessionID         string
	Status            entities.WorkflowStatus
	RegisteredVoters  int
	ProposalCount     int
	Tallied           bool
	WinningProposalID int
	IsTie             bool
}

func (uc SessionQueries) SessionStatus(ctx context.Context, sessionID string) (SessionStatus, error) {
	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return SessionStatus{}, err
	}
	view := SessionStatus{
		SessionID:        session.SessionID,
		Status:           session.Status,
		RegisteredVoters: len(session.VoterOrder),
		ProposalCount:    len(session.Proposals),
	}
	if session.Status == entities.StatusVotesTallied {
		view.Tallied = true
		view.WinningProposalID = session.WinningProposalID
		view.IsTie = session.IsTie
	}
	return view, nil
}
