package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geodirector_pipeline_runs_total",
		Help: "Total number of pipeline runs, by outcome",
	}, []string{"outcome"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geodirector_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesCapturedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geodirector_frames_captured_total",
		Help: "Total number of frames captured across all runs",
	})

	LocationsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geodirector_locations_extracted_total",
		Help: "Total number of location records returned to callers",
	})
)
