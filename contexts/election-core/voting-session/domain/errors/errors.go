package errors

import "errors"

var (
	ErrSessionNotFound           = errors.New("voting session not found")
	ErrUnauthorized              = errors.New("caller is not the session administrator")
	ErrNotVoter                  = errors.New("caller is not a registered voter")
	ErrVoterRegistrationClosed   = errors.New("voter registration is closed")
	ErrAlreadyRegistered         = errors.New("voter is already registered")
	ErrProposalsNotAllowed       = errors.New("proposals are not being accepted")
	ErrEmptyProposal             = errors.New("proposal description is empty")
	ErrVotingSessionNotStarted   = errors.New("voting session has not started")
	ErrAlreadyVoted              = errors.New("voter has already voted")
	ErrProposalNotFound          = errors.New("proposal not found")
	ErrInvalidWorkflowStatus     = errors.New("operation is not legal in the current workflow status")
	ErrCannotResetBeforeTallying = errors.New("session cannot be reset before votes are tallied")
	ErrInvalidSessionInput       = errors.New("invalid session input")
)
