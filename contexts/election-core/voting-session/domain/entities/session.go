package entities

import (
	"time"

	domainerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
)

// WorkflowStatus is the six-phase election lifecycle. Phases only move
// forward, one step at a time; Reset is the single way back to
// StatusRegisteringVoters.
type WorkflowStatus int

const (
	StatusRegisteringVoters WorkflowStatus = iota
	StatusProposalsRegistrationStarted
	StatusProposalsRegistrationEnded
	StatusVotingSessionStarted
	StatusVotingSessionEnded
	StatusVotesTallied
)

func (s WorkflowStatus) String() string {
	switch s {
	case StatusRegisteringVoters:
		return "registering_voters"
	case StatusProposalsRegistrationStarted:
		return "proposals_registration_started"
	case StatusProposalsRegistrationEnded:
		return "proposals_registration_ended"
	case StatusVotingSessionStarted:
		return "voting_session_started"
	case StatusVotingSessionEnded:
		return "voting_session_ended"
	case StatusVotesTallied:
		return "votes_tallied"
	default:
		return "unknown"
	}
}

// GenesisProposalDescription is the reserved proposal appended at index 0
// when proposal registration opens. It is tallied like any other proposal.
const GenesisProposalDescription = "GENESIS"

type Voter struct {
	IsRegistered    bool
	HasVoted        bool
	VotedProposalID int
}

type Proposal struct {
	Description string
	VoteCount   int
}

// Session is the stateful aggregate owning one election's registries,
// workflow phase, and tally result. Voters is keyed by caller identity;
// VoterOrder keeps registration order so Reset can walk every registered
// voter. Proposals is append-only until Reset clears it; a proposal's slice
// index is its identity for the session's lifetime.
type Session struct {
	SessionID         string
	Status            WorkflowStatus
	Voters            map[string]Voter
	VoterOrder        []string
	Proposals         []Proposal
	WinningProposalID int
	IsTie             bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewSession(sessionID string, now time.Time) Session {
	return Session{
		SessionID: sessionID,
		Status:    StatusRegisteringVoters,
		Voters:    make(map[string]Voter),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// Clone deep-copies the aggregate so stores can hand out isolated values and
// callers can snapshot state before attempting a mutation.
func (s Session) Clone() Session {
	copied := s
	copied.Voters = make(map[string]Voter, len(s.Voters))
	for identity, voter := range s.Voters {
		copied.Voters[identity] = voter
	}
	copied.VoterOrder = append([]string(nil), s.VoterOrder...)
	copied.Proposals = append([]Proposal(nil), s.Proposals...)
	return copied
}

func (s Session) IsRegisteredVoter(identity string) bool {
	return s.Voters[identity].IsRegistered
}

// VoterFor returns the registry entry for an identity. Unknown identities
// yield the zero Voter, mirroring an absent registry entry.
func (s Session) VoterFor(identity string) Voter {
	return s.Voters[identity]
}

// ProposalAt returns the proposal registered under the given index.
func (s Session) ProposalAt(proposalID int) (Proposal, error) {
	if proposalID < 0 || proposalID >= len(s.Proposals) {
		return Proposal{}, domainerrors.ErrProposalNotFound
	}
	return s.Proposals[proposalID], nil
}

// RegisterVoter marks an identity as registered. Legal only while the
// session is in StatusRegisteringVoters and the identity is not yet
// registered.
func (s *Session) RegisterVoter(identity string, now time.Time) error {
	if s.Status != StatusRegisteringVoters {
		return domainerrors.ErrVoterRegistrationClosed
	}
	if s.Voters[identity].IsRegistered {
		return domainerrors.ErrAlreadyRegistered
	}
	s.Voters[identity] = Voter{IsRegistered: true}
	s.VoterOrder = append(s.VoterOrder, identity)
	s.touch(now)
	return nil
}

// SubmitProposal appends a proposal for a registered voter and returns the
// new proposal's index.
func (s *Session) SubmitProposal(voterID string, description string, now time.Time) (int, error) {
	if !s.IsRegisteredVoter(voterID) {
		return 0, domainerrors.ErrNotVoter
	}
	if s.Status != StatusProposalsRegistrationStarted {
		return 0, domainerrors.ErrProposalsNotAllowed
	}
	if description == "" {
		return 0, domainerrors.ErrEmptyProposal
	}
	s.Proposals = append(s.Proposals, Proposal{Description: description})
	s.touch(now)
	return len(s.Proposals) - 1, nil
}

// CastVote records a registered voter's single vote for an existing
// proposal index. A cast vote cannot be changed.
func (s *Session) CastVote(voterID string, proposalID int, now time.Time) error {
	voter := s.Voters[voterID]
	if !voter.IsRegistered {
		return domainerrors.ErrNotVoter
	}
	if s.Status != StatusVotingSessionStarted {
		return domainerrors.ErrVotingSessionNotStarted
	}
	if voter.HasVoted {
		return domainerrors.ErrAlreadyVoted
	}
	if proposalID < 0 || proposalID >= len(s.Proposals) {
		return domainerrors.ErrProposalNotFound
	}
	voter.HasVoted = true
	voter.VotedProposalID = proposalID
	s.Voters[voterID] = voter
	s.Proposals[proposalID].VoteCount++
	s.touch(now)
	return nil
}

// StartProposalsRegistration opens proposal submission and seeds the
// reserved GENESIS proposal at index 0.
func (s *Session) StartProposalsRegistration(now time.Time) error {
	if err := s.advance(StatusRegisteringVoters, StatusProposalsRegistrationStarted, now); err != nil {
		return err
	}
	s.Proposals = append(s.Proposals, Proposal{Description: GenesisProposalDescription})
	return nil
}

func (s *Session) EndProposalsRegistration(now time.Time) error {
	return s.advance(StatusProposalsRegistrationStarted, StatusProposalsRegistrationEnded, now)
}

func (s *Session) StartVotingSession(now time.Time) error {
	return s.advance(StatusProposalsRegistrationEnded, StatusVotingSessionStarted, now)
}

func (s *Session) EndVotingSession(now time.Time) error {
	return s.advance(StatusVotingSessionStarted, StatusVotingSessionEnded, now)
}

// TallyVotes scans proposals once in index order. A strictly greater vote
// count takes the lead and clears the tie flag; an equal count with a
// non-zero running maximum sets the tie flag without moving the leader, so
// the recorded winner stays the earliest index reaching the final maximum.
func (s *Session) TallyVotes(now time.Time) error {
	if s.Status != StatusVotingSessionEnded {
		return domainerrors.ErrInvalidWorkflowStatus
	}
	winning := 0
	maxVotes := 0
	tie := false
	for proposalID, proposal := range s.Proposals {
		if proposal.VoteCount > maxVotes {
			maxVotes = proposal.VoteCount
			winning = proposalID
			tie = false
		} else if proposal.VoteCount == maxVotes && maxVotes > 0 {
			tie = true
		}
	}
	s.WinningProposalID = winning
	s.IsTie = tie
	s.Status = StatusVotesTallied
	s.touch(now)
	return nil
}

// Reset starts a new election round: proposals and the tally result are
// cleared, every registered voter's HasVoted/VotedProposalID return to their
// initial values, and the session goes back to StatusRegisteringVoters.
// Registration itself is preserved.
func (s *Session) Reset(now time.Time) error {
	if s.Status != StatusVotesTallied {
		return domainerrors.ErrCannotResetBeforeTallying
	}
	for _, identity := range s.VoterOrder {
		voter := s.Voters[identity]
		voter.HasVoted = false
		voter.VotedProposalID = 0
		s.Voters[identity] = voter
	}
	s.Proposals = nil
	s.WinningProposalID = 0
	s.IsTie = false
	s.Status = StatusRegisteringVoters
	s.touch(now)
	return nil
}

func (s *Session) advance(from WorkflowStatus, to WorkflowStatus, now time.Time) error {
	if s.Status != from {
		return domainerrors.ErrInvalidWorkflowStatus
	}
	s.Status = to
	s.touch(now)
	return nil
}

func (s *Session) touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}
