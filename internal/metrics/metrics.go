// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "value_lines"

// Label values
const (
	StageDetail = "detail"
	StageView   = "view"

	StatusSuccess = "success"
	StatusFailure = "failure"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_fetches_total",
		Help:      "Per-match fetches by stage and status",
	}, []string{"stage", "status"})
	AggregationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "Total number of team history aggregations",
	})
	FailedMatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_matches_total",
		Help:      "Matches excluded from aggregation because their detail fetch failed",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Value lines produced by field and confidence",
	}, []string{"field", "confidence"})
	FieldsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fields_skipped_total",
		Help:      "Fields with no recommendation by reason",
	}, []string{"field", "reason"})
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_cache_requests_total",
		Help:      "Fetch cache lookups by stage and result",
	}, []string{"stage", "result"})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Stats provider HTTP requests by endpoint and status",
	}, []string{"endpoint", "status"})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_stored_total",
		Help:      "Total number of predictions written to storage",
	})
	PredictionsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_settled_total",
		Help:      "Settled predictions by outcome",
	}, []string{"status"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fetch_cache_hit_ratio",
		Help:      "Fetch cache hit ratio by stage",
	}, []string{"stage"})
)

// Histogram metrics
var (
	AggregationRecords = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_records",
		Help:      "Normalized records produced per aggregation",
		Buckets:   []float64{0, 1, 3, 5, 8, 10, 15, 20, 30},
	})
	AggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of team history aggregation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	EngineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engine_duration_seconds",
		Help:      "Duration of multi-field line search in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
	RecommendationProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommendation_probability",
		Help:      "Modeled probability of selected lines",
		Buckets:   []float64{0.5, 0.55, 0.58, 0.59, 0.6, 0.61, 0.62, 0.65, 0.7},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(FetchesTotal)
		registry.MustRegister(AggregationsTotal)
		registry.MustRegister(FailedMatchesTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(FieldsSkippedTotal)
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(PredictionsStoredTotal)
		registry.MustRegister(PredictionsSettledTotal)

		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(AggregationRecords)
		registry.MustRegister(AggregationDuration)
		registry.MustRegister(EngineDuration)
		registry.MustRegister(RecommendationProbability)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFetch records a per-match fetch outcome.
func RecordFetch(stage, status string) {
	FetchesTotal.WithLabelValues(stage, status).Inc()
}

// RecordAggregation records a completed team history aggregation.
func RecordAggregation(records, failures int, durationSeconds float64) {
	AggregationsTotal.Inc()
	FailedMatchesTotal.Add(float64(failures))
	AggregationRecords.Observe(float64(records))
	AggregationDuration.Observe(durationSeconds)
}

// RecordRecommendation records a selected value line.
func RecordRecommendation(field, confidence string, probability float64) {
	RecommendationsTotal.WithLabelValues(field, confidence).Inc()
	RecommendationProbability.Observe(probability)
}

// RecordFieldSkipped records a field that produced no line.
func RecordFieldSkipped(field, reason string) {
	FieldsSkippedTotal.WithLabelValues(field, reason).Inc()
}

// RecordEngineRun records the duration of a multi-field line search.
func RecordEngineRun(durationSeconds float64) {
	EngineDuration.Observe(durationSeconds)
}

// RecordCacheAccess records a fetch cache lookup.
func RecordCacheAccess(stage string, hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	CacheRequestsTotal.WithLabelValues(stage, result).Inc()
}

// UpdateCacheHitRatio updates the hit ratio gauge for a stage.
func UpdateCacheHitRatio(stage string, ratio float64) {
	CacheHitRatio.WithLabelValues(stage).Set(ratio)
}

// RecordProviderRequest records a stats provider HTTP request.
func RecordProviderRequest(endpoint, status string) {
	ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordPredictionStored records a prediction write.
func RecordPredictionStored() {
	PredictionsStoredTotal.Inc()
}

// RecordPredictionSettled records a settlement outcome.
func RecordPredictionSettled(status string) {
	PredictionsSettledTotal.WithLabelValues(status).Inc()
}
