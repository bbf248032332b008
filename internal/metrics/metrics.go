package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation metrics
	EventsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_events_generated_total",
			Help: "Total number of events produced by the content generator",
		},
		[]string{"tactic"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_events_failed_total",
			Help: "Total number of generator calls that failed or timed out",
		},
		[]string{"tactic"},
	)

	CampaignsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_campaigns_total",
			Help: "Total number of campaigns generated",
		},
		[]string{"category"},
	)

	StageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forge_stage_generation_duration_seconds",
			Help:    "Wall time spent generating one stage's events",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Sink metrics
	DocumentsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_documents_indexed_total",
			Help: "Total number of documents accepted by a sink",
		},
		[]string{"sink"},
	)

	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_sink_errors_total",
			Help: "Total number of sink write failures",
		},
		[]string{"sink"},
	)

	SinkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forge_sink_flush_duration_seconds",
			Help:    "Duration of sink flush operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)
)
