package dag

import (
	"context"
	"time"

	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/observability"
)

// WithTracing wraps a Unit with OpenTelemetry span creation.
// Each Run creates a span named "{prefix}.{nodeID}".
func WithTracing(unit Unit, prefix, nodeID string) Unit {
	return &tracingUnit{inner: unit, prefix: prefix, nodeID: nodeID}
}

type tracingUnit struct {
	inner  Unit
	prefix string
	nodeID string
}

func (u *tracingUnit) Validate(input Payload) bool { return u.inner.Validate(input) }

func (u *tracingUnit) Run(ctx context.Context, input Payload) (Payload, error) {
	ctx, span := observability.StartSpan(ctx, u.prefix+"."+u.nodeID)
	defer span.End()

	observability.SetSpanAttribute(ctx, "dag.node", u.nodeID)

	output, err := u.inner.Run(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return output, err
}

// WithNodeMetrics wraps a Unit with metric recording.
// Records node count, duration, and errors.
func WithNodeMetrics(unit Unit, nodeID string, metrics *observability.Metrics) Unit {
	return &metricsUnit{inner: unit, nodeID: nodeID, metrics: metrics}
}

type metricsUnit struct {
	inner   Unit
	nodeID  string
	metrics *observability.Metrics
}

func (u *metricsUnit) Validate(input Payload) bool { return u.inner.Validate(input) }

func (u *metricsUnit) Run(ctx context.Context, input Payload) (Payload, error) {
	start := time.Now()
	output, err := u.inner.Run(ctx, input)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		u.metrics.RecordError(ctx, "run", u.nodeID)
	}
	u.metrics.RecordNode(ctx, u.nodeID, status, duration)

	return output, err
}

// WithLogging wraps a Unit with execution logging.
// Logs: node id, duration, and success/error status.
func WithLogging(unit Unit, nodeID string, log *logger.Logger) Unit {
	return &loggingUnit{inner: unit, nodeID: nodeID, log: log}
}

type loggingUnit struct {
	inner  Unit
	nodeID string
	log    *logger.Logger
}

func (u *loggingUnit) Validate(input Payload) bool { return u.inner.Validate(input) }

func (u *loggingUnit) Run(ctx context.Context, input Payload) (Payload, error) {
	start := time.Now()
	output, err := u.inner.Run(ctx, input)
	duration := time.Since(start)

	fields := map[string]any{
		logger.FieldNode:     u.nodeID,
		logger.FieldDuration: duration.Milliseconds(),
	}

	if err != nil {
		fields[logger.FieldError] = err.Error()
		u.log.Error("unit run failed", fields)
	} else {
		u.log.Debug("unit run completed", fields)
	}

	return output, err
}
