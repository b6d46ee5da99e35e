package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// coordination service.
type Metrics struct {
	// Gateway metrics.
	SourceReads     *prometheus.CounterVec // labels: entity, source, outcome={success,empty,error}
	SourceFallbacks *prometheus.CounterVec // labels: entity, from, to
	CacheLookups    *prometheus.CounterVec // labels: entity, result={hit,miss,stale}
	WriteOutcomes   *prometheus.CounterVec // labels: entity, store, outcome={success,error}

	// Region classification metrics.
	Classifications   *prometheus.CounterVec // labels: result={matched,outside,failed}
	SnapshotRefreshes *prometheus.CounterVec // labels: outcome={success,error}
	SnapshotRegions   prometheus.Gauge

	// Intake metrics.
	SubmissionDuration *prometheus.HistogramVec // labels: kind={checkin,assessment,facility,request}
	AssessmentScores   *prometheus.HistogramVec // labels: kind

	// Moderation metrics.
	ModerationActions   *prometheus.CounterVec // labels: action
	AuditFailures       prometheus.Counter
	AuditPublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourceReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "source_reads_total",
			Help:      "Store read attempts by entity, source, and outcome.",
		}, []string{"entity", "source", "outcome"}),
		SourceFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "source_fallbacks_total",
			Help:      "Fallback transitions between ordered stores.",
		}, []string{"entity", "from", "to"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "cache_lookups_total",
			Help:      "Gateway cache lookups by entity and result.",
		}, []string{"entity", "result"}),
		WriteOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "writes_total",
			Help:      "Store write attempts by entity, store, and outcome.",
		}, []string{"entity", "store", "outcome"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "region_classifications_total",
			Help:      "Coordinate classifications by result.",
		}, []string{"result"}),
		SnapshotRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "region_snapshot_refreshes_total",
			Help:      "Boundary snapshot refresh attempts by outcome.",
		}, []string{"outcome"}),
		SnapshotRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "satgas",
			Name:      "region_snapshot_regions",
			Help:      "Number of regions in the current boundary snapshot.",
		}),
		SubmissionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "satgas",
			Name:      "submission_duration_seconds",
			Help:      "Duration of a complete intake submission.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
		AssessmentScores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "satgas",
			Name:      "assessment_scores",
			Help:      "Distribution of computed assessment scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"kind"}),
		ModerationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "moderation_actions_total",
			Help:      "Successful moderation ledger actions by action tag.",
		}, []string{"action"}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "satgas",
			Name:      "audit_failures_total",
			Help:      "Audit trail writes that failed and were skipped.",
		}),
		AuditPublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "satgas",
			Name:      "audit_publish_enabled",
			Help:      "1 when audit events are published to Kafka, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SourceReads,
		m.SourceFallbacks,
		m.CacheLookups,
		m.WriteOutcomes,
		m.Classifications,
		m.SnapshotRefreshes,
		m.SnapshotRegions,
		m.SubmissionDuration,
		m.AssessmentScores,
		m.ModerationActions,
		m.AuditFailures,
		m.AuditPublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceReads:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "source_reads_total"}, []string{"entity", "source", "outcome"}),
		SourceFallbacks:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "source_fallbacks_total"}, []string{"entity", "from", "to"}),
		CacheLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "cache_lookups_total"}, []string{"entity", "result"}),
		WriteOutcomes:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "writes_total"}, []string{"entity", "store", "outcome"}),
		Classifications:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "region_classifications_total"}, []string{"result"}),
		SnapshotRefreshes:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "region_snapshot_refreshes_total"}, []string{"outcome"}),
		SnapshotRegions:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "satgas", Name: "region_snapshot_regions"}),
		SubmissionDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "satgas", Name: "submission_duration_seconds"}, []string{"kind"}),
		AssessmentScores:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "satgas", Name: "assessment_scores"}, []string{"kind"}),
		ModerationActions:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "satgas", Name: "moderation_actions_total"}, []string{"action"}),
		AuditFailures:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "satgas", Name: "audit_failures_total"}),
		AuditPublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "satgas", Name: "audit_publish_enabled"}),
	}
}
