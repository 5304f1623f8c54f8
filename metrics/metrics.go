package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector label values.
const (
	CollectorOdds   = "odds"
	CollectorScores = "scores"
)

var (
	// CollectorRuns counts collection attempts per collector.
	CollectorRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickem_collector_runs_total",
		Help: "Number of collection runs, by collector.",
	}, []string{"collector"})

	// CollectorFailures counts collection runs that ended in an error.
	CollectorFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickem_collector_failures_total",
		Help: "Number of failed collection runs, by collector.",
	}, []string{"collector"})

	// QuotaRemaining tracks the provider's reported remaining request quota.
	QuotaRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pickem_provider_quota_remaining",
		Help: "Remaining request quota reported by the odds provider.",
	})

	// SnapshotsBuilt counts line snapshots written.
	SnapshotsBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickem_snapshots_built_total",
		Help: "Number of line snapshots built.",
	})

	// PicksSubmitted counts accepted pick sheets.
	PicksSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickem_picks_submitted_total",
		Help: "Number of pick sheets accepted.",
	})

	// PicksRejected counts rejected submissions by reason.
	PicksRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickem_picks_rejected_total",
		Help: "Number of pick submissions rejected, by reason.",
	}, []string{"reason"})

	// WeeksScored counts scoring passes that graded at least one sheet.
	WeeksScored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickem_weeks_scored_total",
		Help: "Number of scoring passes that graded at least one sheet.",
	})
)

func init() {
	prometheus.MustRegister(
		CollectorRuns,
		CollectorFailures,
		QuotaRemaining,
		SnapshotsBuilt,
		PicksSubmitted,
		PicksRejected,
		WeeksScored,
	)
}

// Handler returns the Prometheus scrape handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
