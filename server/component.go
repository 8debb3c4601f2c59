package server

import (
	"context"
	"fmt"

	"github.com/tradeflowhq/tradeflow/component"
)

const componentName = "http-server"

var _ component.Component = (*ServerComponent)(nil)
var _ component.Describable = (*ServerComponent)(nil)

// ServerComponent wraps Server to implement component.Component so the
// server participates in the registry lifecycle.
type ServerComponent struct {
	server *Server
}

// NewComponent returns a component.Component backed by the given Server.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

// Name returns the component name used for registration.
func (sc *ServerComponent) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (sc *ServerComponent) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports the health of the server.
func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	if sc.server.httpServer != nil {
		return component.Health{
			Name:   componentName,
			Status: component.StatusHealthy,
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusUnhealthy,
		Message: "HTTP server not initialized",
	}
}

// Describe returns infrastructure summary info for startup logging.
func (sc *ServerComponent) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Port:    cfg.Port,
	}
}
