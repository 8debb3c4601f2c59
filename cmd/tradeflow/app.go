package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tradeflowhq/tradeflow/agents"
	"github.com/tradeflowhq/tradeflow/cache"
	"github.com/tradeflowhq/tradeflow/component"
	"github.com/tradeflowhq/tradeflow/dag"
	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/marketdata"
	"github.com/tradeflowhq/tradeflow/observability"
	"github.com/tradeflowhq/tradeflow/server"
)

const gracefulTimeout = 15 * time.Second

// app holds the wired service: the engine with its registered units, the
// HTTP surface, and the lifecycle-managed components.
type app struct {
	cfg        *Config
	log        *logger.Logger
	engine     *dag.Engine
	registry   *dag.Registry
	srv        *server.Server
	components *component.Registry
	metrics    *observability.Metrics

	telemetryShutdown []func(context.Context) error
}

// buildApp constructs the whole service from config. Nothing is started;
// the component registry owns startup and shutdown order.
func buildApp(cfg *Config) (*app, error) {
	a := &app{
		cfg:        cfg,
		log:        logger.GetGlobalLogger().WithComponent("app"),
		components: component.NewRegistry(),
	}

	if err := a.initTelemetry(); err != nil {
		return nil, err
	}

	metrics, err := observability.NewMetrics(observability.Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("metrics instruments: %w", err)
	}
	a.metrics = metrics

	// Market data feed: simulated provider behind retry and breaker.
	simCfg := marketdata.DefaultSimConfig()
	simCfg.Latency = time.Duration(cfg.Feed.LatencyMS) * time.Millisecond
	feed := marketdata.NewComponent(
		marketdata.NewSimProvider(simCfg),
		marketdata.DefaultGuardConfig(),
		cfg.Feed.ProbeSymbol,
		logger.GetGlobalLogger(),
	)

	store := cache.New(time.Duration(cfg.Engine.CacheTTL) * time.Second)

	a.registry = dag.NewRegistry()
	agents.RegisterAll(a.registry, agents.Deps{
		Provider: feed.Provider(),
		Cache:    store,
		Log:      logger.GetGlobalLogger(),
	})

	graph, err := a.loadGraph()
	if err != nil {
		return nil, err
	}

	engine, err := dag.New(graph, a.registry,
		dag.WithMaxParallel(cfg.Engine.MaxParallel),
		dag.WithNodeTimeout(time.Duration(cfg.Engine.NodeTimeout)*time.Second),
		dag.WithHistoryLimit(cfg.Engine.HistoryLimit),
		dag.WithLogger(logger.GetGlobalLogger().WithComponent("engine")),
		dag.WithMetrics(metrics),
		dag.WithUnitWrapper(func(nodeID string, u dag.Unit) dag.Unit {
			u = dag.WithLogging(u, nodeID, logger.GetGlobalLogger())
			u = dag.WithNodeMetrics(u, nodeID, metrics)
			return dag.WithTracing(u, graph.Name, nodeID)
		}),
	)
	if err != nil {
		return nil, err
	}
	a.engine = engine

	a.srv = server.New(cfg.Server, logger.GetGlobalLogger())
	a.srv.ApplyMiddleware(metrics)
	a.srv.RegisterDefaultEndpoints(cfg.Name, cfg.Environment, graph.Description, a.components.HealthAll)
	server.NewAPI(engine, a.registry, logger.GetGlobalLogger()).Register(a.srv.GinEngine())

	if err := a.components.Register(feed); err != nil {
		return nil, err
	}
	if err := a.components.Register(server.NewComponent(a.srv)); err != nil {
		return nil, err
	}

	return a, nil
}

// loadGraph reads the configured graph file, or falls back to the
// built-in market-analysis graph.
func (a *app) loadGraph() (*dag.Graph, error) {
	if a.cfg.Engine.GraphFile == "" {
		return agents.DefaultGraph(), nil
	}
	g, err := dag.LoadGraph(a.cfg.Engine.GraphFile)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// initTelemetry starts the OTLP exporters when enabled. Without them the
// otel globals stay no-ops and the decorators cost nothing.
func (a *app) initTelemetry() error {
	if !a.cfg.Telemetry.Enabled {
		return nil
	}
	ctx := context.Background()

	tp, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: a.cfg.Version,
		Environment:    a.cfg.Environment,
		Endpoint:       a.cfg.Telemetry.Endpoint,
		Insecure:       a.cfg.Telemetry.Insecure,
		SampleRate:     a.cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.telemetryShutdown = append(a.telemetryShutdown, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    a.cfg.Name,
		ServiceVersion: a.cfg.Version,
		Environment:    a.cfg.Environment,
		Endpoint:       a.cfg.Telemetry.Endpoint,
		Insecure:       a.cfg.Telemetry.Insecure,
		Interval:       time.Duration(a.cfg.Telemetry.IntervalSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	a.telemetryShutdown = append(a.telemetryShutdown, mp.Shutdown)
	return nil
}

// start brings every component up in registration order and, when
// configured, kicks off the initial background execution.
func (a *app) start(ctx context.Context) error {
	if err := a.components.StartAll(ctx); err != nil {
		return err
	}

	for _, c := range a.components.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			a.log.Info("Component ready", logger.Fields(
				"name", desc.Name,
				"type", desc.Type,
				"details", desc.Details,
			))
		}
	}

	if a.cfg.Engine.RunOnStart {
		id := a.engine.ExecuteAsync(nil)
		a.log.Info("Startup execution launched", logger.Fields(
			logger.FieldExecutionID, id,
		))
	}
	return nil
}

// stop shuts components down in reverse order, then flushes telemetry.
func (a *app) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()

	if err := a.components.StopAll(ctx); err != nil {
		a.log.Error("Shutdown incomplete", logger.ErrorFields("stop", err))
	}
	for _, shutdown := range a.telemetryShutdown {
		if err := shutdown(ctx); err != nil {
			a.log.Warn("Telemetry flush failed", logger.ErrorFields("telemetry", err))
		}
	}
}
