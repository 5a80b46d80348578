package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	votingsession "ballotbox/contexts/election-core/voting-session"
	ownerbridge "ballotbox/contexts/election-core/voting-session/adapters/ownership"
	ownership "ballotbox/contexts/identity-access/ownership-service"
	"ballotbox/internal/platform/metrics"
)

// Prometheus collectors register once per process, so the test server shares
// one Metrics instance.
var testMetrics = metrics.New()

func newTestServer() *Server {
	ownershipModule := ownership.NewInMemoryModule(nil)
	votingModule := votingsession.NewInMemoryModule(ownerbridge.Registry{
		Ownership: ownershipModule.Ownership,
		Queries:   ownershipModule.Queries,
	}, nil)
	return New(votingModule, ownershipModule, testMetrics, nil, ":0")
}

func createTestSession(t *testing.T, server *Server, adminID string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	req.Header.Set("X-User-Id", adminID)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	decodeTestJSON(t, rr, &resp)
	return resp.SessionID
}

func TestCreateSessionRequiresIdentityHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterVoterRejectsNonAdmin(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/sessions/"+sessionID+"/voters",
		bytes.NewReader([]byte(`{"voter_id":"alice"}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "intruder")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterVoterTwiceConflicts(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(
			http.MethodPost,
			"/v1/sessions/"+sessionID+"/voters",
			bytes.NewReader([]byte(`{"voter_id":"alice"}`)),
		)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", "admin")

		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d body=%s", i, want, rr.Code, rr.Body.String())
		}
	}
}

func TestSubmitProposalOutsideWindowConflicts(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	registerTestVoter(t, server, sessionID, "alice")

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/sessions/"+sessionID+"/proposals",
		bytes.NewReader([]byte(`{"description":"more parks"}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 before proposals open, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitEmptyProposalUnprocessable(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")
	registerTestVoter(t, server, sessionID, "alice")
	startTestTransition(t, server, sessionID, "start-proposals")

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/sessions/"+sessionID+"/proposals",
		bytes.NewReader([]byte(`{"description":""}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestVoteForUnknownProposalNotFound(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")
	registerTestVoter(t, server, sessionID, "alice")
	startTestTransition(t, server, sessionID, "start-proposals")
	startTestTransition(t, server, sessionID, "end-proposals")
	startTestTransition(t, server, sessionID, "start-voting")

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/sessions/"+sessionID+"/votes",
		bytes.NewReader([]byte(`{"proposal_id":42}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReadUnknownProposalNotFound(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")
	registerTestVoter(t, server, sessionID, "alice")
	startTestTransition(t, server, sessionID, "start-proposals")

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID+"/proposals/99", nil)
	req.Header.Set("X-User-Id", "alice")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range proposal, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSessionStatusIsPublic(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID, nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 without identity header, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnknownSessionNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/no-such-session", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSkippingWorkflowPhaseConflicts(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/workflow/start-voting", nil)
	req.Header.Set("X-User-Id", "admin")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOwnershipTransferRejectsNonOwner(t *testing.T) {
	server := newTestServer()
	sessionID := createTestSession(t, server, "admin")

	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/ownership/"+sessionID+"/transfer",
		bytes.NewReader([]byte(`{"new_owner_id":"successor"}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "intruder")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func decodeTestJSON(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
}

func registerTestVoter(t *testing.T, server *Server, sessionID string, voterID string) {
	t.Helper()
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/sessions/"+sessionID+"/voters",
		bytes.NewReader([]byte(`{"voter_id":"`+voterID+`"}`)),
	)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "admin")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register voter %s: %d body=%s", voterID, rr.Code, rr.Body.String())
	}
}

func startTestTransition(t *testing.T, server *Server, sessionID string, step string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/workflow/"+step, nil)
	req.Header.Set("X-User-Id", "admin")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("transition %s: %d body=%s", step, rr.Code, rr.Body.String())
	}
}
