package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "szn_analysis_requests_total",
		Help: "Analysis requests processed, by timeframe and outcome.",
	}, []string{"timeframe", "outcome"})

	analysisCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "szn_analysis_cache_hits_total",
		Help: "Analysis requests served from the result cache.",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "szn_analysis_duration_seconds",
		Help:    "Wall-clock duration of uncached analysis runs.",
		Buckets: prometheus.DefBuckets,
	})

	barsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "szn_bars_loaded_total",
		Help: "Daily bars ingested from data files.",
	})
)
