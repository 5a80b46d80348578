package commands

import (
	"context"
	"strings"
	"time"

	application "ballotbox/contexts/election-core/voting-session/application"
	"ballotbox/contexts/election-core/voting-session/domain/entities"
	"ballotbox/contexts/election-core/voting-session/ports"
)

// TransitionCommand advances the workflow one phase. All four transition
// operations are admin-only and legal only from the exact predecessor phase.
type TransitionCommand struct {
	SessionID string
	CallerID  string
}

type TransitionResult struct {
	PreviousStatus entities.WorkflowStatus
	NewStatus      entities.WorkflowStatus
}

func (uc SessionUseCase) StartProposalsRegistering(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, func(session *entities.Session, now time.Time) error {
		return session.StartProposalsRegistration(now)
	})
}

func (uc SessionUseCase) EndProposalsRegistering(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, func(session *entities.Session, now time.Time) error {
		return session.EndProposalsRegistration(now)
	})
}

func (uc SessionUseCase) StartVotingSession(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, func(session *entities.Session, now time.Time) error {
		return session.StartVotingSession(now)
	})
}

func (uc SessionUseCase) EndVotingSession(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	return uc.transition(ctx, cmd, func(session *entities.Session, now time.Time) error {
		return session.EndVotingSession(now)
	})
}

func (uc SessionUseCase) transition(
	ctx context.Context,
	cmd TransitionCommand,
	apply func(session *entities.Session, now time.Time) error,
) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.requireAdmin(ctx, cmd.SessionID, cmd.CallerID); err != nil {
		return TransitionResult{}, err
	}

	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return TransitionResult{}, err
	}
	previous := session.Status
	now := uc.Clock.Now()
	if err := apply(&session, now); err != nil {
		logger.Warn("workflow transition rejected",
			"event", "session_workflow_transition_rejected",
			"module", "election-core/voting-session",
			"layer", "application",
			"session_id", session.SessionID,
			"status", previous.String(),
			"error", err.Error(),
		)
		return TransitionResult{}, err
	}

	changed, err := uc.newEnvelope(ctx, EventWorkflowStatusChanged, session.SessionID, now,
		statusChangedData(session.SessionID, previous.String(), session.Status.String()))
	if err != nil {
		return TransitionResult{}, err
	}
	if err := uc.Sessions.SaveSession(ctx, session, []ports.EventEnvelope{changed}); err != nil {
		return TransitionResult{}, err
	}

	logger.Info("workflow status changed",
		"event", "session_workflow_status_changed",
		"module", "election-core/voting-session",
		"layer", "application",
		"session_id", session.SessionID,
		"previous_status", previous.String(),
		"new_status", session.Status.String(),
	)
	return TransitionResult{PreviousStatus: previous, NewStatus: session.Status}, nil
}
