// Package metrics exposes Prometheus metrics for the processing pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StepStore      = "store"
	StepTranscribe = "transcribe"
	StepSummarize  = "summarize"
)

var (
	// pipelineStepsTotal counts pipeline step executions by step and outcome
	// (success, error).
	pipelineStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetmind_pipeline_steps_total",
			Help: "Total number of processing pipeline step executions",
		},
		[]string{"step", "outcome"},
	)

	pipelineStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meetmind_pipeline_step_duration_seconds",
			Help:    "Duration of processing pipeline steps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(pipelineStepsTotal)
	prometheus.MustRegister(pipelineStepDuration)
}

// ObservePipelineStep records one execution of step that started at start.
func ObservePipelineStep(step string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	pipelineStepsTotal.WithLabelValues(step, outcome).Inc()
	pipelineStepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}
