package component

// ServiceHealth describes the overall health of the service and its
// components. Overall status starts healthy and only degrades: one
// degraded component makes the service degraded, one unhealthy component
// makes it unhealthy.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status healthy.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  StatusHealthy,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status
// if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case StatusUnhealthy:
		sh.Status = StatusUnhealthy
	case StatusDegraded:
		if sh.Status != StatusUnhealthy {
			sh.Status = StatusDegraded
		}
	}
}
