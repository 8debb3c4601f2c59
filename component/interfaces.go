package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed service component. The HTTP
// server, the market data feed, and the execution engine runner each
// implement this interface and are driven by the Registry.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description summarizes a component for the service info endpoint.
type Description struct {
	// Name is the human-readable display name (e.g., "HTTP Server").
	// If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "server", "feed", "engine".
	Type string
	// Details is a human-readable one-liner, e.g. "0.0.0.0:8080".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by Components to self-report
// what they are and how they are configured.
type Describable interface {
	Describe() Description
}
