// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_step_validations_total",
			Help: "Total number of step validations by outcome",
		},
		[]string{"step", "outcome"},
	)

	FileUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_file_uploads_total",
			Help: "Total number of file uploads by outcome",
		},
		[]string{"field", "outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Total number of application submissions by final status",
		},
		[]string{"status"},
	)

	SubmissionStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_submission_stage_duration_seconds",
			Help: "Duration of each submission pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	DocumentPages = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_document_pages",
			Help:    "Page counts of rendered and merged documents",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"kind"},
	)

	ActiveDrafts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_active_drafts",
			Help: "Number of draft applications currently in the session store",
		},
	)
)
