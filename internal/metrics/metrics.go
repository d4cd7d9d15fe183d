// Package metrics exposes Prometheus instruments for the verification pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "politikcred"

var (
	SimilarityTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "similarity",
		Name:      "computations_total",
		Help:      "Similarity computations by strategy: embedding or keyword_fallback",
	}, []string{"method"})

	SimilarityLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "similarity",
		Name:      "latency_seconds",
		Help:      "Latency of one similarity computation",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 3.0},
	}, []string{"method"})

	DegradationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "similarity",
		Name:      "degradations_total",
		Help:      "One-way switches from the embedding strategy to the keyword fallback",
	}, []string{"provider"})

	EmbeddingCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "embedding",
		Name:      "cache_lookups_total",
		Help:      "Embedding cache lookups by result: hit or miss",
	}, []string{"result"})

	MatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "match",
		Name:      "resolved_total",
		Help:      "Resolved matches by match type",
	}, []string{"match_type"})

	RoutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "routing",
		Name:      "matches_total",
		Help:      "Routed matches by band: auto_verify, needs_review or discard",
	}, []string{"band"})

	LedgerDelta = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "score_delta",
		Help:      "Signed score deltas appended to the credibility ledger",
		Buckets:   []float64{-7.5, -5, -3, -1, -0.5, 0, 0.5, 1, 2, 3, 4.5},
	})

	SourceChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "validate",
		Name:      "source_checks_total",
		Help:      "Source URL checks by outcome: live, archived, blocked or invalid",
	}, []string{"outcome"})
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
