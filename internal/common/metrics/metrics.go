// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Jobs currently being processed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	OracleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_requests_total",
			Help: "Scoring oracle calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	OracleLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_request_duration_seconds",
			Help:    "Scoring oracle call latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	// OracleFallbacks counts times a deterministic fallback replaced oracle output.
	OracleFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_fallbacks_total",
			Help: "Deterministic fallbacks taken instead of oracle output",
		},
		[]string{"component", "reason"},
	)

	AssessmentsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessments_started_total",
			Help: "Assessments created",
		},
	)

	AssessmentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_completed_total",
			Help: "Assessments completed by scope",
		},
		[]string{"scope"},
	)

	ResponsesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_responses_submitted_total",
			Help: "Responses upserted by lens",
		},
		[]string{"lens"},
	)

	BenchmarkCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchmark_cache_lookups_total",
			Help: "Benchmark cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
