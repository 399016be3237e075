package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the analysis module.
type Metrics struct {
	// Final outcomes by outcome and question category
	Outcomes *prometheus.CounterVec

	// Collaborator call latencies by collaborator name
	CollaboratorLatency *prometheus.HistogramVec

	// Overall analyze latency including collaborator calls
	AnalyzeLatency prometheus.Histogram

	// Requests that proceeded with empty context after a retrieval failure
	RetrievalDegraded prometheus.Counter

	// Audit appends that failed without failing the response
	AuditWriteFailures prometheus.Counter
}

// New creates a Metrics instance with all analysis module metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "causeway_analysis_outcomes_total",
			Help: "Total analysis outcomes by outcome and question category",
		}, []string{"outcome", "category"}),

		CollaboratorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "causeway_analysis_collaborator_duration_seconds",
			Help:    "Duration of external collaborator calls by collaborator",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"collaborator"}), // collaborator: "retriever", "generator"

		AnalyzeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "causeway_analysis_analyze_duration_seconds",
			Help:    "Duration of full question analysis including collaborator calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),

		RetrievalDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "causeway_analysis_retrieval_degraded_total",
			Help: "Requests answered with empty context after retrieval failure",
		}),

		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "causeway_analysis_audit_write_failures_total",
			Help: "Audit log appends that failed without failing the response",
		}),
	}
}

// IncrementOutcome records a final outcome.
func (m *Metrics) IncrementOutcome(outcome, category string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, category).Inc()
	}
}

// ObserveCollaboratorLatency records the duration of one collaborator call.
func (m *Metrics) ObserveCollaboratorLatency(collaborator string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(collaborator).Observe(d.Seconds())
	}
}

// ObserveAnalyzeLatency records the total analysis duration.
func (m *Metrics) ObserveAnalyzeLatency(d time.Duration) {
	if m != nil {
		m.AnalyzeLatency.Observe(d.Seconds())
	}
}

// IncrementRetrievalDegraded records a request that degraded to empty context.
func (m *Metrics) IncrementRetrievalDegraded() {
	if m != nil {
		m.RetrievalDegraded.Inc()
	}
}

// IncrementAuditWriteFailure records a failed audit append.
func (m *Metrics) IncrementAuditWriteFailure() {
	if m != nil {
		m.AuditWriteFailures.Inc()
	}
}
