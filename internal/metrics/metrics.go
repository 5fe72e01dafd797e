// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Disambiguations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "disambiguations_total",
		Help:      "Disambiguation calls by resource variant and outcome (found, no_candidates, error).",
	}, []string{"variant", "outcome"})

	CandidatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "candidates_skipped_total",
		Help:      "Candidates dropped because their individual lookup failed.",
	}, []string{"variant"})

	DisambiguationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wsd",
		Name:      "disambiguation_duration_seconds",
		Help:      "Latency of single-sentence disambiguation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"variant"})

	OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "oracle_calls_total",
		Help:      "Similarity provider calls by provider and outcome (ok, unavailable).",
	}, []string{"provider", "outcome"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "candidate_cache_lookups_total",
		Help:      "Candidate cache lookups by layer and result (hit, miss).",
	}, []string{"layer", "result"})

	BatchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "batch_runs_total",
		Help:      "Batch runs by method and outcome.",
	}, []string{"method", "outcome"})

	BatchDocuments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wsd",
		Name:      "batch_documents_total",
		Help:      "Documents processed by batch runs, by result (found, absent, skipped).",
	}, []string{"result"})
)
