package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	votingsession "ballotbox/contexts/election-core/voting-session"
	votingerrors "ballotbox/contexts/election-core/voting-session/domain/errors"
	votinghttp "ballotbox/contexts/election-core/voting-session/transport/http"
	ownership "ballotbox/contexts/identity-access/ownership-service"
	ownershiperrors "ballotbox/contexts/identity-access/ownership-service/domain/errors"
	ownershiphttp "ballotbox/contexts/identity-access/ownership-service/transport/http"
	"ballotbox/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "ballotbox/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	voting    votingsession.Module
	ownership ownership.Module
	metrics   *metrics.Metrics
}

func New(
	voting votingsession.Module,
	ownershipModule ownership.Module,
	appMetrics *metrics.Metrics,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		voting:    voting,
		ownership: ownershipModule,
		metrics:   appMetrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}", s.handleSessionStatus)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}/voters/{voter_id}", s.handleGetVoter)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/proposals", s.handleSubmitProposal)
	s.mux.HandleFunc("GET /v1/sessions/{session_id}/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/votes", s.handleCastVote)

	s.mux.HandleFunc("POST /v1/sessions/{session_id}/workflow/start-proposals", s.handleStartProposalsRegistering)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/workflow/end-proposals", s.handleEndProposalsRegistering)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/workflow/start-voting", s.handleStartVotingSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/workflow/end-voting", s.handleEndVotingSession)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/tally", s.handleTallyVotes)
	s.mux.HandleFunc("POST /v1/sessions/{session_id}/reset", s.handleResetVoting)

	s.mux.HandleFunc("GET /v1/ownership/{resource_id}", s.handleGetOwner)
	s.mux.HandleFunc("POST /v1/ownership/{resource_id}/transfer", s.handleTransferOwnership)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	resp, err := s.voting.Handler.CreateSessionHandler(r.Context(), callerID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementSessionsCreated()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.SessionStatusHandler(r.Context(), sessionID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	var req votinghttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.RegisterVoterHandler(r.Context(), sessionID, callerID, req)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementVotersRegistered()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("session_id")
	voterID := r.PathValue("voter_id")
	resp, err := s.voting.Handler.GetVoterHandler(r.Context(), sessionID, callerID, voterID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	var req votinghttp.SubmitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.SubmitProposalHandler(r.Context(), sessionID, callerID, req)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementProposalsSubmitted()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	proposalID, err := strconv.Atoi(r.PathValue("proposal_id"))
	if err != nil {
		s.writeVotingError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal id must be an integer")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.GetProposalHandler(r.Context(), sessionID, callerID, proposalID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	var req votinghttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), sessionID, callerID, req)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementVotesCast()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStartProposalsRegistering(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.voting.Handler.StartProposalsRegisteringHandler)
}

func (s *Server) handleEndProposalsRegistering(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.voting.Handler.EndProposalsRegisteringHandler)
}

func (s *Server) handleStartVotingSession(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.voting.Handler.StartVotingSessionHandler)
}

func (s *Server) handleEndVotingSession(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.voting.Handler.EndVotingSessionHandler)
}

func (s *Server) handleTallyVotes(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.TallyVotesHandler(r.Context(), sessionID, callerID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementTalliesComputed()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetVoting(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.voting.Handler.ResetVotingHandler(r.Context(), sessionID, callerID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("resource_id")
	resp, err := s.ownership.Handler.GetOwnerHandler(r.Context(), resourceID)
	if err != nil {
		s.writeOwnershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	var req ownershiphttp.TransferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeOwnershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resourceID := r.PathValue("resource_id")
	resp, err := s.ownership.Handler.TransferOwnershipHandler(r.Context(), resourceID, callerID, req)
	if err != nil {
		s.writeOwnershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type transitionHandler func(ctx context.Context, sessionID string, callerID string) (votinghttp.TransitionResponse, error)

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, apply transitionHandler) {
	callerID, ok := s.requireCaller(w, r)
	if !ok {
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := apply(r.Context(), sessionID, callerID)
	if err != nil {
		s.writeVotingDomainError(w, err)
		return
	}
	s.metrics.IncrementTransition(resp.NewStatus)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	callerID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if callerID == "" {
		s.writeVotingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return callerID, true
}

func (s *Server) writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votingerrors.ErrSessionNotFound):
		s.writeVotingError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrProposalNotFound):
		s.writeVotingError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, votingerrors.ErrUnauthorized):
		s.writeVotingError(w, http.StatusForbidden, "not_administrator", err.Error())
	case errors.Is(err, votingerrors.ErrNotVoter):
		s.writeVotingError(w, http.StatusForbidden, "not_voter", err.Error())
	case errors.Is(err, votingerrors.ErrAlreadyRegistered),
		errors.Is(err, votingerrors.ErrAlreadyVoted),
		errors.Is(err, votingerrors.ErrVoterRegistrationClosed),
		errors.Is(err, votingerrors.ErrProposalsNotAllowed),
		errors.Is(err, votingerrors.ErrVotingSessionNotStarted),
		errors.Is(err, votingerrors.ErrInvalidWorkflowStatus),
		errors.Is(err, votingerrors.ErrCannotResetBeforeTallying):
		s.writeVotingError(w, http.StatusConflict, "workflow_conflict", err.Error())
	case errors.Is(err, votingerrors.ErrEmptyProposal):
		s.writeVotingError(w, http.StatusUnprocessableEntity, "empty_proposal", err.Error())
	case errors.Is(err, votingerrors.ErrInvalidSessionInput):
		s.writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeOwnershipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ownershiperrors.ErrOwnerNotFound):
		s.writeOwnershipError(w, http.StatusNotFound, "owner_not_found", err.Error())
	case errors.Is(err, ownershiperrors.ErrNotOwner):
		s.writeOwnershipError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, ownershiperrors.ErrOwnerAlreadyAssigned):
		s.writeOwnershipError(w, http.StatusConflict, "owner_already_assigned", err.Error())
	case errors.Is(err, ownershiperrors.ErrInvalidResourceID),
		errors.Is(err, ownershiperrors.ErrInvalidOwnerID):
		s.writeOwnershipError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.writeOwnershipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	s.metrics.IncrementRequestError(strconv.Itoa(status))
	writeJSON(w, status, votinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) writeOwnershipError(w http.ResponseWriter, status int, code string, message string) {
	s.metrics.IncrementRequestError(strconv.Itoa(status))
	writeJSON(w, status, ownershiphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
