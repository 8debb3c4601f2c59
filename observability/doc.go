// Package observability provides OpenTelemetry tracing and metrics
// integration for the service: spans around graph runs, node executions,
// and HTTP requests, plus counters and histograms for each.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("tradeflow"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("tradeflow"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("tradeflow"))
//	metrics.RecordRun(ctx, "success", duration)
package observability
