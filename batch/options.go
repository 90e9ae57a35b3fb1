package batch

import (
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
)

// DefaultChunkSize commits every item on its own.
const DefaultChunkSize = 1

// StepOption configures a chunk step.
type StepOption func(*stepOptions)

type stepOptions struct {
	chunkSize int
	log       *logger.Logger
	metrics   *observability.BatchMetrics
}

func resolveStepOptions(opts []StepOption) *stepOptions {
	o := &stepOptions{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.metrics == nil {
		// global meter is a no-op until telemetry installs a provider
		if m, err := observability.NewBatchMetrics(observability.Meter(meterName)); err == nil {
			o.metrics = m
		}
	}
	return o
}

const meterName = "github.com/kbukum/personjob/batch"

// WithChunkSize sets how many processed items are collected before each
// write. Values below 1 are ignored.
func WithChunkSize(n int) StepOption {
	return func(o *stepOptions) {
		if n >= 1 {
			o.chunkSize = n
		}
	}
}

// WithLogger sets the logger used by the step.
func WithLogger(l *logger.Logger) StepOption {
	return func(o *stepOptions) {
		o.log = l
	}
}

// WithMetrics sets the metric instruments recorded by the step.
func WithMetrics(m *observability.BatchMetrics) StepOption {
	return func(o *stepOptions) {
		o.metrics = m
	}
}
