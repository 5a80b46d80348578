package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the voting workflow.
type Metrics struct {
	SessionsCreated    prometheus.Counter
	VotersRegistered   prometheus.Counter
	ProposalsSubmitted prometheus.Counter
	VotesCast          prometheus.Counter
	TalliesComputed    prometheus.Counter
	Transitions        *prometheus.CounterVec
	RequestErrors      *prometheus.CounterVec
}

// New creates a Metrics instance with all counters registered on the default
// registry.
func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_sessions_created_total",
			Help: "Total number of voting sessions created",
		}),
		VotersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_voters_registered_total",
			Help: "Total number of voters registered across all sessions",
		}),
		ProposalsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_proposals_submitted_total",
			Help: "Total number of proposals submitted by voters",
		}),
		VotesCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_votes_cast_total",
			Help: "Total number of votes cast",
		}),
		TalliesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ballotbox_tallies_computed_total",
			Help: "Total number of completed vote tallies",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotbox_workflow_transitions_total",
			Help: "Workflow transitions by resulting status",
		}, []string{"status"}),
		RequestErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotbox_request_errors_total",
			Help: "HTTP requests rejected, by status code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementSessionsCreated() {
	if m != nil {
		m.SessionsCreated.Inc()
	}
}

func (m *Metrics) IncrementVotersRegistered() {
	if m != nil {
		m.VotersRegistered.Inc()
	}
}

func (m *Metrics) IncrementProposalsSubmitted() {
	if m != nil {
		m.ProposalsSubmitted.Inc()
	}
}

func (m *Metrics) IncrementVotesCast() {
	if m != nil {
		m.VotesCast.Inc()
	}
}

func (m *Metrics) IncrementTalliesComputed() {
	if m != nil {
		m.TalliesComputed.Inc()
	}
}

// IncrementTransition records a workflow transition into the given status.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

// IncrementRequestError records a rejected HTTP request.
func (m *Metrics) IncrementRequestError(code string) {
	if m != nil {
		m.RequestErrors.WithLabelValues(code).Inc()
	}
}
