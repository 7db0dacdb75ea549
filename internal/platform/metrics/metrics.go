package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DocumentsUploaded    prometheus.Counter
	DocumentsDeactivated prometheus.Counter
	GrantsIssued         prometheus.Counter
	GrantsRevoked        prometheus.Counter
	BatchGrants          prometheus.Counter
	AccessChecks         *prometheus.CounterVec
	SubmissionTimeouts   prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DocumentsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_documents_uploaded_total",
			Help: "Total number of documents registered",
		}),
		DocumentsDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_documents_deactivated_total",
			Help: "Total number of documents deactivated",
		}),
		GrantsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_grants_issued_total",
			Help: "Total number of single access grants issued",
		}),
		GrantsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_grants_revoked_total",
			Help: "Total number of access grants revoked",
		}),
		BatchGrants: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_batch_grants_total",
			Help: "Total number of committed batch grant submissions",
		}),
		AccessChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docvault_access_checks_total",
			Help: "Total number of access checks by result",
		}, []string{"result"}),
		SubmissionTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docvault_submission_timeouts_total",
			Help: "Total number of ledger submissions that timed out",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docvault_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementAccessCheck records an access check outcome ("granted" or
// "denied").
func (m *Metrics) IncrementAccessCheck(granted bool) {
	if m == nil {
		return
	}
	result := "denied"
	if granted {
		result = "granted"
	}
	m.AccessChecks.WithLabelValues(result).Inc()
}
