package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation pipeline Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recs",
			Name:      "recommendations_total",
			Help:      "Total recommendation requests by outcome",
		},
		[]string{"outcome"}, // "scored" / "fallback" / "error"
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recs",
			Name:      "recommendation_duration_seconds",
			Help:      "End-to-end recommendation pipeline duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"outcome"},
	)

	RelaxationFinalLevel = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "recs",
			Name:      "relaxation_final_level",
			Help:      "Ladder level at which candidate search settled (4 = exhausted)",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
	)

	CatalogSearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recs",
			Name:      "catalog_search_total",
			Help:      "Catalog search attempts by status",
		},
		[]string{"status"}, // "ok" / "empty" / "error"
	)

	CandidatesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "recs",
			Name:      "candidates_skipped_total",
			Help:      "Candidates dropped because feature building failed",
		},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recs",
			Name:      "llm_requests_total",
			Help:      "LLM collaborator requests",
		},
		[]string{"op", "status"}, // op: "parse" / "enrich" / "rationale"
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recs",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM collaborator request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	UserContextCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recs",
			Name:      "user_context_cache_total",
			Help:      "User context cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(RelaxationFinalLevel)
	prometheus.MustRegister(CatalogSearchTotal)
	prometheus.MustRegister(CandidatesSkippedTotal)
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(UserContextCacheTotal)
	pipelineMetricsRegistered = true
}
