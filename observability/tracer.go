package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/personjob/logger"
)

const tracerName = "github.com/kbukum/personjob/observability"

// InitTracer installs a batching OTLP/HTTP tracer provider as the global one,
// along with W3C trace context and baggage propagation. The caller owns the
// provider and must shut it down to flush pending spans.
func InitTracer(ctx context.Context, cfg Config, info ServiceInfo) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	res, err := info.resource(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Get("observability").Info("tracer initialized", logger.Fields(
		"service", info.Name, "endpoint", cfg.Endpoint, "sample_rate", cfg.SampleRate,
	))
	return tp, nil
}

// sampler keeps every trace at 1, none at 0, and otherwise follows the
// parent's decision or samples root spans by trace ID ratio.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// resource merges the OTEL_RESOURCE_ATTRIBUTES environment with the service
// identity.
func (info ServiceInfo) resource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(info.Name),
			semconv.ServiceVersion(info.Version),
			attribute.String(AttrEnvironment, info.Environment),
		),
	)
}

// StartSpan uses this package's tracer on the current global provider.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

// SpanFromContext never returns nil; without a span it is a no-op one.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanError marks a recording span failed with err. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Span names.
const (
	SpanJob   = "batch.job"
	SpanStep  = "batch.step"
	SpanChunk = "batch.chunk"
	SpanFlush = "batch.flush"
)

// Attribute keys.
const (
	AttrEnvironment = "deployment.environment"
	AttrJobName     = "batch.job.name"
	AttrStepName    = "batch.step.name"
	AttrExecutionID = "batch.execution.id"
	AttrReadCount   = "batch.read.count"
	AttrWriteCount  = "batch.write.count"
	AttrChunkSize   = "batch.chunk.size"
	AttrStatus      = "status"
	AttrErrorCode   = "error.code"
)
