package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts quote fetches per view category.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedash_fetch_total",
			Help: "Total quote fetches by view category",
		}, []string{"category"})

	// UpstreamErrors counts adapter-level transport/parse failures. These are
	// swallowed by the orchestrator, so the counter is the only place the
	// "empty because upstream failed" case stays visible.
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotedash_upstream_errors_total",
			Help: "Upstream adapter failures by source",
		}, []string{"source"})

	// FetchLatency observes end-to-end category fetch time.
	FetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quotedash_fetch_latency_seconds",
			Help:    "Time to fetch and merge one view category",
			Buckets: prometheus.DefBuckets,
		})

	// AnalysisErrors counts failed AI summary calls.
	AnalysisErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quotedash_analysis_errors_total",
			Help: "Failed market analysis generations",
		})
)
