package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videos_ms_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videos_ms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videos_ms_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	UploadsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videos_ms_uploads_rejected_total",
			Help: "Uploads refused before reaching the use case",
		},
		[]string{"reason"}, // "rate_limited", "too_large"
	)
)

// Pipeline metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videos_ms_processing_jobs_total",
			Help: "Processing jobs by outcome",
		},
		[]string{"outcome"}, // "completed", "failed"
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videos_ms_processing_job_duration_seconds",
			Help:    "Time spent running the ingestion pipeline",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videos_ms_processing_jobs_in_flight",
			Help: "Number of pipelines currently running",
		},
	)

	JobsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videos_ms_processing_jobs_submitted_total",
			Help: "Jobs handed to the queue, by result",
		},
		[]string{"result"}, // "queued", "rejected"
	)

	StaleJobsRecoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videos_ms_stale_jobs_recovered_total",
			Help: "Jobs failed by the stale job recovery",
		},
	)
)

// Scratch space metrics
var (
	ScratchFilesSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videos_ms_scratch_files_swept_total",
			Help: "Stale scratch files removed by the sweeper",
		},
	)
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)
