package dag

import "time"

// Status classifies the outcome of a node or of a whole run.
type Status string

const (
	// StatusSuccess marks a node (or run) that completed normally.
	StatusSuccess Status = "success"
	// StatusError marks a node (or run) that failed.
	StatusError Status = "error"
)

// NodeResult is the immutable outcome of one node execution. Exactly one is
// produced per attempted node per run. Output is present only on success,
// Error only on failure.
type NodeResult struct {
	NodeID    string        `json:"node_id"`
	Status    Status        `json:"status"`
	Output    Payload       `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// RunResult is the end-to-end outcome of one Execute call. Status is
// success iff every attempted node succeeded. Order is the flattened
// execution order actually attempted, level by level. Output maps every
// attempted node id to its payload or to an ErrorMarker.
type RunResult struct {
	ID        string        `json:"execution_id"`
	Status    Status        `json:"status"`
	Results   []NodeResult  `json:"results"`
	Output    map[string]any `json:"aggregated_output"`
	Order     []string      `json:"execution_order"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// ErrorMarker stands in for a failed node's payload in the aggregated
// output.
type ErrorMarker struct {
	Status Status `json:"status"`
	Error  string `json:"error"`
}

// successResult builds a NodeResult for a completed node.
func successResult(nodeID string, output Payload, started time.Time) NodeResult {
	return NodeResult{
		NodeID:    nodeID,
		Status:    StatusSuccess,
		Output:    output,
		Timestamp: time.Now(),
		Duration:  time.Since(started),
	}
}

// errorResult builds a NodeResult for a failed node.
func errorResult(nodeID string, err error, started time.Time) NodeResult {
	return NodeResult{
		NodeID:    nodeID,
		Status:    StatusError,
		Error:     err.Error(),
		Timestamp: time.Now(),
		Duration:  time.Since(started),
	}
}
