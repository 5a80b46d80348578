package httpadapter

import (
	"context"
	"log/slog"

	"ballotbox/contexts/election-core/voting-session/application/commands"
	"ballotbox/contexts/election-core/voting-session/application/queries"
	httptransport "ballotbox/contexts/election-core/voting-session/transport/http"
)

type Handler struct {
	Sessions commands.SessionUseCase
	Queries  queries.SessionQueries
	Logger   *slog.Logger
}

func (h Handler) CreateSessionHandler(ctx context.Context, callerID string) (httptransport.SessionResponse, error) {
	result, err := h.Sessions.CreateSession(ctx, commands.CreateSessionCommand{AdminID: callerID})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{
		SessionID: result.Session.SessionID,
		AdminID:   result.AdminID,
		Status:    result.Session.Status.String(),
	}, nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	sessionID string,
	callerID string,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Sessions.RegisterVoter(ctx, commands.RegisterVoterCommand{
		SessionID: sessionID,
		CallerID:  callerID,
		VoterID:   req.VoterID,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return httptransport.VoterResponse{
		VoterID:         req.VoterID,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
	}, nil
}

func (h Handler) GetVoterHandler(ctx context.Context, sessionID string, callerID string, voterID string) (httptransport.VoterResponse, error) {
	voter, err := h.Queries.GetVoter(ctx, sessionID, callerID, voterID)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return httptransport.VoterResponse{
		VoterID:         voterID,
		IsRegistered:    voter.IsRegistered,
		HasVoted:        voter.HasVoted,
		VotedProposalID: voter.VotedProposalID,
	}, nil
}

func (h Handler) SubmitProposalHandler(
	ctx context.Context,
	sessionID string,
	callerID string,
	req httptransport.SubmitProposalRequest,
) (httptransport.ProposalResponse, error) {
	result, err := h.Sessions.SubmitProposal(ctx, commands.SubmitProposalCommand{
		SessionID:   sessionID,
		CallerID:    callerID,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return httptransport.ProposalResponse{
		ProposalID:  result.ProposalID,
		Description: result.Description,
	}, nil
}

func (h Handler) GetProposalHandler(ctx context.Context, sessionID string, callerID string, proposalID int) (httptransport.ProposalResponse, error) {
	proposal, err := h.Queries.GetProposal(ctx, sessionID, callerID, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return httptransport.ProposalResponse{
		ProposalID:  proposalID,
		Description: proposal.Description,
		VoteCount:   proposal.VoteCount,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	sessionID string,
	callerID string,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.Sessions.CastVote(ctx, commands.CastVoteCommand{
		SessionID:  sessionID,
		CallerID:   callerID,
		ProposalID: req.ProposalID,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		SessionID:  sessionID,
		ProposalID: result.ProposalID,
		VoteCount:  result.VoteCount,
	}, nil
}

func (h Handler) StartProposalsRegisteringHandler(ctx context.Context, sessionID string, callerID string) (httptransport.TransitionResponse, error) {
	result, err := h.Sessions.StartProposalsRegistering(ctx, commands.TransitionCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	return h.transition(sessionID, result, err)
}

func (h Handler) EndProposalsRegisteringHandler(ctx context.Context, sessionID string, callerID string) (httptransport.TransitionResponse, error) {
	result, err := h.Sessions.EndProposalsRegistering(ctx, commands.TransitionCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	return h.transition(sessionID, result, err)
}

func (h Handler) StartVotingSessionHandler(ctx context.Context, sessionID string, callerID string) (httptransport.TransitionResponse, error) {
	result, err := h.Sessions.StartVotingSession(ctx, commands.TransitionCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	return h.transition(sessionID, result, err)
}

func (h Handler) EndVotingSessionHandler(ctx context.Context, sessionID string, callerID string) (httptransport.TransitionResponse, error) {
	result, err := h.Sessions.EndVotingSession(ctx, commands.TransitionCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	return h.transition(sessionID, result, err)
}

func (h Handler) TallyVotesHandler(ctx context.Context, sessionID string, callerID string) (httptransport.TallyResponse, error) {
	result, err := h.Sessions.TallyVotes(ctx, commands.TallyVotesCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	return httptransport.TallyResponse{
		SessionID:         sessionID,
		WinningProposalID: result.WinningProposalID,
		IsTie:             result.IsTie,
		Description:       result.WinningProposal.Description,
		VoteCount:         result.WinningProposal.VoteCount,
	}, nil
}

func (h Handler) ResetVotingHandler(ctx context.Context, sessionID string, callerID string) (httptransport.ResetResponse, error) {
	result, err := h.Sessions.ResetVoting(ctx, commands.ResetVotingCommand{
		SessionID: sessionID,
		CallerID:  callerID,
	})
	if err != nil {
		return httptransport.ResetResponse{}, err
	}
	return httptransport.ResetResponse{
		SessionID:        sessionID,
		Status:           result.Status.String(),
		RegisteredVoters: result.RegisteredCount,
	}, nil
}

func (h Handler) SessionStatusHandler(ctx context.Context, sessionID string) (httptransport.SessionStatusResponse, error) {
	view, err := h.Queries.SessionStatus(ctx, sessionID)
	if err != nil {
		return httptransport.SessionStatusResponse{}, err
	}
	resp := httptransport.SessionStatusResponse{
		SessionID:        view.SessionID,
		Status:           view.Status.String(),
		RegisteredVoters: view.RegisteredVoters,
		ProposalCount:    view.ProposalCount,
		Tallied:          view.Tallied,
	}
	if view.Tallied {
		winning := view.WinningProposalID
		tie := view.IsTie
		resp.WinningProposalID = &winning
		resp.IsTie = &tie
	}
	return resp, nil
}

func (h Handler) transition(sessionID string, result commands.TransitionResult, err error) (httptransport.TransitionResponse, error) {
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		SessionID:      sessionID,
		PreviousStatus: result.PreviousStatus.String(),
		NewStatus:      result.NewStatus.String(),
	}, nil
}
