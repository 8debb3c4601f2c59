package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph configuration errors. All of them abort an execution before any
// node runs.
const (
	// ErrCodeGraphInvalid indicates a malformed graph definition
	// (duplicate ids, dangling edge endpoints, bad input mapping).
	ErrCodeGraphInvalid ErrorCode = "GRAPH_INVALID"
	// ErrCodeGraphCycle indicates the edge set contains a cycle.
	ErrCodeGraphCycle ErrorCode = "GRAPH_CYCLE"
	// ErrCodeCapabilityUnknown indicates a node references a capability
	// that was never registered.
	ErrCodeCapabilityUnknown ErrorCode = "CAPABILITY_UNKNOWN"
	// ErrCodeUnitConstruct indicates a unit constructor failed.
	ErrCodeUnitConstruct ErrorCode = "UNIT_CONSTRUCT_FAILED"
)

// Node execution errors. These never escape the engine; they are recorded
// on the failing node's result.
const (
	// ErrCodeNodeInvalidInput indicates a unit rejected its input.
	ErrCodeNodeInvalidInput ErrorCode = "NODE_INVALID_INPUT"
	// ErrCodeNodeMissingDependency indicates an input mapping referenced
	// an unrecorded or failed producer.
	ErrCodeNodeMissingDependency ErrorCode = "NODE_MISSING_DEPENDENCY"
	// ErrCodeNodeExecution indicates a unit's Run returned an error.
	ErrCodeNodeExecution ErrorCode = "NODE_EXECUTION_FAILED"
	// ErrCodeNodeTimeout indicates a unit's Run exceeded its deadline.
	ErrCodeNodeTimeout ErrorCode = "NODE_TIMEOUT"
	// ErrCodeNodePanic indicates a unit's Run panicked.
	ErrCodeNodePanic ErrorCode = "NODE_PANIC"
)

// Request/resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the request input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeConflict indicates a conflict with the current state.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeMarketData indicates the market data provider failed.
	ErrCodeMarketData ErrorCode = "MARKET_DATA_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeMarketData:         true,
	ErrCodeNodeTimeout:        true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
