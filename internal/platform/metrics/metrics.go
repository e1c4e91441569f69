package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ChecksTotal       *prometheus.CounterVec
	ProviderErrors    *prometheus.CounterVec
	QuotaDenied       prometheus.Counter
	DocumentsRendered prometheus.Counter
	CheckDuration     prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kontra_checks_total",
			Help: "Completed company checks by resulting risk tier",
		}, []string{"tier"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kontra_provider_errors_total",
			Help: "Registry provider failures by category",
		}, []string{"category"}),
		QuotaDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kontra_quota_denied_total",
			Help: "Checks refused because the free quota was exhausted",
		}),
		DocumentsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kontra_documents_rendered_total",
			Help: "Document reports rendered to PDF",
		}),
		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "kontra_check_duration_seconds",
			Help:    "End-to-end duration of the check pipeline",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
