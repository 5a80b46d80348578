package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	AdminID   string `json:"admin_id,omitempty"`
	Status    string `json:"status"`
}

type RegisterVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type VoterResponse struct {
	VoterID         string `json:"voter_id"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID int    `json:"voted_proposal_id"`
}

type SubmitProposalRequest struct {
	Description string `json:"description"`
}

type ProposalResponse struct {
	ProposalID  int    `json:"proposal_id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

type CastVoteRequest struct {
	ProposalID int `json:"proposal_id"`
}

type CastVoteResponse struct {
	SessionID  string `json:"session_id"`
	ProposalID int    `json:"proposal_id"`
	VoteCount  int    `json:"vote_count"`
}

type TransitionResponse struct {
	SessionID      string `json:"session_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

type TallyResponse struct {
	SessionID         string `json:"session_id"`
	WinningProposalID int    `json:"winning_proposal_id"`
	IsTie             bool   `json:"is_tie"`
	Description       string `json:"description"`
	VoteCount         int    `json:"vote_count"`
}

type ResetResponse struct {
	SessionID        string `json:"session_id"`
	Status           string `json:"status"`
	RegisteredVoters int    `json:"registered_voters"`
}

type SessionStatusResponse struct {
	SessionID         string `json:"session_id"`
	Status            string `json:"status"`
	RegisteredVoters  int    `json:"registered_voters"`
	ProposalCount     int    `json:"proposal_count"`
	Tallied           bool   `json:"tallied"`
	WinningProposalID *int   `json:"winning_proposal_id,omitempty"`
	IsTie             *bool  `json:"is_tie,omitempty"`
}
