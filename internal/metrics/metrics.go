// Package metrics provides the centralized Prometheus registry for the
// odds edge engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "games_processed_total",
		Help:      "Total number of games replayed through the rating books",
	}, []string{"league"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "predictions_total",
		Help:      "Total number of model predictions produced",
	}, []string{"league"})
	QualifiedEdgesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "qualified_edges_total",
		Help:      "Total number of edges clearing the qualification thresholds",
	}, []string{"league"})
	PropsAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "props_analyzed_total",
		Help:      "Total number of player props analyzed",
	})
	BacktestRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs completed",
	})
	OddsFetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "oddsedge",
		Name:      "odds_fetch_errors_total",
		Help:      "Total number of failed odds provider requests",
	})
)

// Gauge metrics
var (
	CalibrationSampleSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "calibration_sample_size",
		Help:      "Number of samples behind the current calibration map",
	}, []string{"league"})
	RatedParticipants = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "rated_participants",
		Help:      "Number of participants tracked per rating book",
	}, []string{"league"})
	LastRatingRebuild = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "oddsedge",
		Name:      "last_rating_rebuild_timestamp_seconds",
		Help:      "Unix time of the last full rating rebuild",
	})
)

// Histogram metrics
var (
	OddsFetchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "odds_fetch_latency_seconds",
		Help:      "Latency of odds provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oddsedge",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GamesProcessedTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(QualifiedEdgesTotal)
		registry.MustRegister(PropsAnalyzedTotal)
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(OddsFetchErrorsTotal)

		registry.MustRegister(CalibrationSampleSize)
		registry.MustRegister(RatedParticipants)
		registry.MustRegister(LastRatingRebuild)

		registry.MustRegister(OddsFetchLatency)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a produced prediction for a league.
func RecordPrediction(league string) {
	PredictionsTotal.WithLabelValues(league).Inc()
}

// RecordQualifiedEdge records an edge that cleared qualification.
func RecordQualifiedEdge(league string) {
	QualifiedEdgesTotal.WithLabelValues(league).Inc()
}

// RecordBacktestRun records a completed backtest and its duration.
func RecordBacktestRun(durationSeconds float64) {
	BacktestRunsTotal.Inc()
	BacktestDuration.Observe(durationSeconds)
}

// RecordOddsFetch records an odds provider request outcome.
func RecordOddsFetch(durationSeconds float64, err error) {
	OddsFetchLatency.Observe(durationSeconds)
	if err != nil {
		OddsFetchErrorsTotal.Inc()
	}
}
