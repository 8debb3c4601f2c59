package marketdata

import (
	"context"
	"fmt"

	"github.com/tradeflowhq/tradeflow/component"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/resilience"
)

// Component wraps a guarded Provider and implements component.Component
// for lifecycle management of the market data feed.
type Component struct {
	provider *Guarded
	probe    string
	log      *logger.Logger
}

// NewComponent guards provider with the policies from cfg. probeSymbol is
// fetched on Start to verify the feed serves data; empty skips the probe.
func NewComponent(provider Provider, cfg GuardConfig, probeSymbol string, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Get("market-data")
	}
	l := log.WithComponent("market-data")
	return &Component{
		provider: Guard(provider, cfg, l),
		probe:    probeSymbol,
		log:      l,
	}
}

// Provider returns the guarded provider for injection into analysis units.
func (c *Component) Provider() Provider {
	return c.provider
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "market-data" }

// Start verifies the feed serves candles for the probe symbol.
func (c *Component) Start(ctx context.Context) error {
	if c.probe == "" {
		c.log.Info("Market data feed started, probe disabled")
		return nil
	}

	candles, err := c.provider.Candles(ctx, c.probe, 5)
	if err != nil {
		return fmt.Errorf("market data start probe: %w", err)
	}
	if len(candles) == 0 {
		return fmt.Errorf("market data start probe: no candles for %s", c.probe)
	}

	c.log.Info("Market data feed started", logger.Fields(
		logger.FieldSymbol, c.probe,
	))
	return nil
}

// Stop releases nothing; the feed holds no connections.
func (c *Component) Stop(_ context.Context) error {
	c.log.Info("Market data feed stopping")
	return nil
}

// Health maps the breaker state: open is unhealthy, half-open degraded.
func (c *Component) Health(_ context.Context) component.Health {
	switch c.provider.Breaker().State() {
	case resilience.StateOpen:
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "feed circuit open",
		}
	case resilience.StateHalfOpen:
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: "feed circuit probing recovery",
		}
	default:
		return component.Health{Name: c.Name(), Status: component.StatusHealthy}
	}
}

// Describe returns feed summary info for the service info endpoint.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Market Data Feed",
		Type:    "feed",
		Details: fmt.Sprintf("guarded feed, breaker=%s", c.provider.Breaker().State()),
	}
}
