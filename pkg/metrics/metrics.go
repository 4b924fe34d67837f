package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harper_pipeline_runs_total",
			Help: "Total number of fact pipeline runs",
		},
		[]string{"status"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "harper_pipeline_duration_seconds",
			Help: "Duration of fact pipeline runs in seconds",
		},
		[]string{"status"},
	)

	ZepRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "harper_zep_request_duration_seconds",
			Help: "Duration of Zep API requests in seconds",
		},
	)

	FactsFetched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harper_facts_fetched",
			Help:    "Number of facts returned per Zep query",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)
)
