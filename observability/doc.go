// Package observability provides OpenTelemetry tracing and metrics for batch
// runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, cfg.Telemetry, cfg.ServiceInfo())
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanStep)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewBatchMetrics(observability.Meter("personjob"))
//	metrics.RecordRead(ctx, "person-processing-step", 1)
//
// Lifecycle:
//
//	app.RegisterComponent(observability.NewComponent(cfg.Telemetry, info))
package observability
