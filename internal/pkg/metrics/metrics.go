package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the loan workflow
type Metrics struct {
	LoansCreated         prometheus.Counter
	Transitions          *prometheus.CounterVec
	AuthorizationDenials *prometheus.CounterVec
}

// New creates and registers all workflow metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoansCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanflow_loans_created_total",
			Help: "Total number of loan applications created",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loanflow_loan_transitions_total",
			Help: "Loan status transitions by action and outcome",
		}, []string{"action", "outcome"}),
		AuthorizationDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loanflow_authorization_denials_total",
			Help: "Operations denied by the authorization policy",
		}, []string{"operation"}),
	}
}

// IncLoansCreated increments the created counter by 1
func (m *Metrics) IncLoansCreated() {
	if m == nil {
		return
	}
	m.LoansCreated.Inc()
}

// ObserveTransition records one transition attempt
func (m *Metrics) ObserveTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(action, outcome).Inc()
}

// IncDenied records a denied operation
func (m *Metrics) IncDenied(operation string) {
	if m == nil {
		return
	}
	m.AuthorizationDenials.WithLabelValues(operation).Inc()
}
