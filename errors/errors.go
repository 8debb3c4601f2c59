package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// CodeOf returns the error code carried by err, or ErrCodeInternal when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// --- Graph configuration constructors ---

// GraphInvalid creates a new AppError for a malformed graph definition.
func GraphInvalid(reason string) *AppError {
	return &AppError{
		Code: ErrCodeGraphInvalid, Message: fmt.Sprintf("Invalid graph definition: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// GraphCycle creates a new AppError for a cyclic edge set. The nodes that
// could not be placed in any level are reported in the details.
func GraphCycle(unplaced []string) *AppError {
	return &AppError{
		Code: ErrCodeGraphCycle, Message: "Graph contains a dependency cycle.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"nodes": unplaced},
	}
}

// CapabilityUnknown creates a new AppError for an unregistered capability.
func CapabilityUnknown(nodeID, uses string) *AppError {
	return &AppError{
		Code: ErrCodeCapabilityUnknown, Message: fmt.Sprintf("Node %q uses unknown capability %q.", nodeID, uses),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"node": nodeID, "uses": uses},
	}
}

// UnitConstruct creates a new AppError for a failed unit constructor.
func UnitConstruct(nodeID string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnitConstruct, Message: fmt.Sprintf("Failed to construct unit for node %q.", nodeID),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"node": nodeID}, Cause: cause,
	}
}

// --- Node execution constructors ---

// NodeInvalidInput creates a new AppError for a unit that rejected its input.
// The message is fixed so downstream consumers can match on it.
func NodeInvalidInput(nodeID string) *AppError {
	return &AppError{
		Code: ErrCodeNodeInvalidInput, Message: "invalid input",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": nodeID},
	}
}

// MissingDependency creates a new AppError for an input mapping that
// referenced an unrecorded or failed producer.
func MissingDependency(nodeID, producerID, reason string) *AppError {
	return &AppError{
		Code: ErrCodeNodeMissingDependency, Message: fmt.Sprintf("Node %q depends on %q: %s", nodeID, producerID, reason),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"node": nodeID, "producer": producerID},
	}
}

// NodeExecution creates a new AppError for a unit Run that returned an error.
func NodeExecution(nodeID string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeNodeExecution, Message: fmt.Sprintf("Node %q failed.", nodeID),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"node": nodeID}, Cause: cause,
	}
}

// NodeTimeout creates a new AppError for a unit Run that exceeded its deadline.
func NodeTimeout(nodeID string, timeout time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeNodeTimeout, Message: fmt.Sprintf("node timed out after %s", timeout),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"node": nodeID, "timeout": timeout.String()},
	}
}

// NodePanic creates a new AppError for a unit Run that panicked.
func NodePanic(nodeID string, recovered any) *AppError {
	return &AppError{
		Code: ErrCodeNodePanic, Message: fmt.Sprintf("node panicked: %v", recovered),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"node": nodeID},
	}
}

// --- Request/resource constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates a new AppError for invalid request input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Conflict creates a new AppError for a conflict with the current state.
func Conflict(reason string) *AppError {
	return &AppError{
		Code: ErrCodeConflict, Message: reason,
		HTTPStatus: http.StatusConflict, Retryable: false,
	}
}

// --- Availability constructors ---

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// MarketData creates a new AppError for a failed market data lookup.
func MarketData(symbol string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMarketData, Message: fmt.Sprintf("Market data unavailable for %s.", symbol),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"symbol": symbol}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
