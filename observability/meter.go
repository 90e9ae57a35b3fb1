package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/personjob/logger"
)

// InitMeter installs an OTLP/HTTP meter provider that exports every
// cfg.Interval as the global one. Shutting the provider down flushes what
// has not been exported yet.
func InitMeter(ctx context.Context, cfg Config, info ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	res, err := info.resource(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", info.Name, "endpoint", cfg.Endpoint, "interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricItemsRead    = "batch.items.read"
	MetricItemsWritten = "batch.items.written"
	MetricChunks       = "batch.chunks"
	MetricStepDuration = "batch.step.duration"
	MetricFailures     = "batch.failures"
)

// BatchMetrics holds the instruments recorded by chunk-oriented steps.
type BatchMetrics struct {
	itemsRead    metric.Int64Counter
	itemsWritten metric.Int64Counter
	chunks       metric.Int64Counter
	stepDuration metric.Float64Histogram
	failures     metric.Int64Counter
}

// NewBatchMetrics creates batch instruments on the given meter.
func NewBatchMetrics(meter metric.Meter) (*BatchMetrics, error) {
	itemsRead, err := meter.Int64Counter(MetricItemsRead,
		metric.WithDescription("Items read by a step"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsRead, err)
	}

	itemsWritten, err := meter.Int64Counter(MetricItemsWritten,
		metric.WithDescription("Items handed to a step's writer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsWritten, err)
	}

	chunks, err := meter.Int64Counter(MetricChunks,
		metric.WithDescription("Chunks committed by a step"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricChunks, err)
	}

	stepDuration, err := meter.Float64Histogram(MetricStepDuration,
		metric.WithDescription("Duration of step executions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricStepDuration, err)
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Failed step executions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFailures, err)
	}

	return &BatchMetrics{
		itemsRead:    itemsRead,
		itemsWritten: itemsWritten,
		chunks:       chunks,
		stepDuration: stepDuration,
		failures:     failures,
	}, nil
}

// RecordRead adds n read items for the step.
func (m *BatchMetrics) RecordRead(ctx context.Context, step string, n int) {
	m.itemsRead.Add(ctx, int64(n), metric.WithAttributes(attribute.String(AttrStepName, step)))
}

// RecordChunk records one written chunk of size items.
func (m *BatchMetrics) RecordChunk(ctx context.Context, step string, size int) {
	attrs := metric.WithAttributes(attribute.String(AttrStepName, step))
	m.chunks.Add(ctx, 1, attrs)
	m.itemsWritten.Add(ctx, int64(size), attrs)
}

// RecordStep records a finished step execution.
func (m *BatchMetrics) RecordStep(ctx context.Context, job, step, status string, duration time.Duration) {
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrJobName, job),
		attribute.String(AttrStepName, step),
		attribute.String(AttrStatus, status),
	))
}

// RecordFailure records a failed step by error code.
func (m *BatchMetrics) RecordFailure(ctx context.Context, step, code string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStepName, step),
		attribute.String(AttrErrorCode, code),
	))
}
