package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the versioning metrics of one service instance.
type Metrics struct {
	VersionsCreated      *prometheus.CounterVec
	EditsSkipped         *prometheus.CounterVec
	Restores             *prometheus.CounterVec
	Comparisons          prometheus.Counter
	Conflicts            *prometheus.CounterVec
	DiffDuration         prometheus.Histogram
	RequestDuration      *prometheus.HistogramVec
	CurrentViolations    prometheus.Gauge
	InvariantCheckErrors prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VersionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docversion_versions_created_total",
				Help: "Total number of versions created",
			},
			[]string{"change_kind"},
		),
		EditsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docversion_edits_skipped_total",
				Help: "Total number of edits that did not produce a version",
			},
			[]string{"reason"},
		),
		Restores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docversion_restores_total",
				Help: "Total number of restore requests",
			},
			[]string{"outcome"},
		),
		Comparisons: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "docversion_comparisons_total",
				Help: "Total number of version comparisons",
			},
		),
		Conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docversion_conflicts_total",
				Help: "Total number of concurrent modification conflicts",
			},
			[]string{"operation"},
		),
		DiffDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docversion_diff_duration_seconds",
				Help:    "Duration of line diffs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docversion_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "code"},
		),
		CurrentViolations: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "docversion_current_version_violations",
				Help: "Number of documents without exactly one current version",
			},
		),
		InvariantCheckErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "docversion_invariant_check_errors_total",
				Help: "Total number of failed invariant checks",
			},
		),
	}
}

// ObserveDiff records the duration of a diff started at start.
func (m *Metrics) ObserveDiff(start time.Time) {
	m.DiffDuration.Observe(time.Since(start).Seconds())
}

// ObserveRequest records the duration of an API call started at start.
func (m *Metrics) ObserveRequest(method, code string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, code).Observe(time.Since(start).Seconds())
}
