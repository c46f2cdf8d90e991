// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_applications_processed_total",
			Help: "Total number of card applications processed, by card, outcome and tier",
		},
		[]string{"card", "outcome", "tier"},
	)

	PreScreenDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_prescreen_denials_total",
			Help: "Total number of applications denied by the eligibility gate before scoring",
		},
		[]string{"card"},
	)

	DecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "card_decision_duration_seconds",
			Help: "Duration of the full application decision pipeline in seconds",
		},
		[]string{"card"},
	)

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
)
