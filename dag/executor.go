package dag

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/tradeflowhq/tradeflow/errors"
)

// runUnit executes exactly one node against its resolved input and converts
// every failure mode into an error NodeResult. It never panics and never
// returns an error: failure is data.
//
// The unit's Validate runs first; a false return yields the fixed
// "invalid input" error without invoking Run. When timeout is positive,
// Run executes under a deadline and cooperative expiry converts to a
// timeout-specific result.
func runUnit(ctx context.Context, nodeID string, unit Unit, input Payload, timeout time.Duration) (res NodeResult) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = errorResult(nodeID, errors.NodePanic(nodeID, r), started)
		}
	}()

	if !unit.Validate(input) {
		return errorResult(nodeID, errors.NodeInvalidInput(nodeID), started)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output, err := unit.Run(runCtx, input)
	if err != nil {
		if timeout > 0 && ctx.Err() == nil && stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return errorResult(nodeID, errors.NodeTimeout(nodeID, timeout), started)
		}
		return errorResult(nodeID, errors.NodeExecution(nodeID, err), started)
	}

	return successResult(nodeID, output, started)
}
