package main

import (
	"fmt"

	"github.com/tradeflowhq/tradeflow/config"
	"github.com/tradeflowhq/tradeflow/server"
	"github.com/tradeflowhq/tradeflow/version"
)

// Config is the full tradeflow application configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config   `yaml:"server" mapstructure:"server"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Feed      FeedConfig      `yaml:"feed" mapstructure:"feed"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// EngineConfig configures the orchestration engine. Timeout values are in
// seconds.
type EngineConfig struct {
	// GraphFile points at a YAML graph definition. Empty selects the
	// built-in market-analysis graph.
	GraphFile    string `yaml:"graph_file" mapstructure:"graph_file"`
	MaxParallel  int    `yaml:"max_parallel" mapstructure:"max_parallel" validate:"gte=0"`
	NodeTimeout  int    `yaml:"node_timeout" mapstructure:"node_timeout" validate:"gte=0"`
	HistoryLimit int    `yaml:"history_limit" mapstructure:"history_limit" validate:"gte=0"`
	// RunOnStart kicks off one background execution as soon as the
	// service is up.
	RunOnStart bool `yaml:"run_on_start" mapstructure:"run_on_start"`
	// CacheTTL bounds the age of cached screening results, in seconds.
	CacheTTL int `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"gte=0"`
}

// FeedConfig configures the market data feed.
type FeedConfig struct {
	// LatencyMS is an artificial per-call delay on the simulated feed,
	// useful for exercising the parallel scheduler.
	LatencyMS int `yaml:"latency_ms" mapstructure:"latency_ms" validate:"gte=0"`
	// ProbeSymbol is fetched once at startup to verify the feed.
	ProbeSymbol string `yaml:"probe_symbol" mapstructure:"probe_symbol"`
}

// TelemetryConfig configures the OTLP exporters. Disabled by default;
// spans and metrics fall back to no-op providers.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// IntervalSeconds is the metric export interval.
	IntervalSeconds int `yaml:"interval_seconds" mapstructure:"interval_seconds" validate:"gte=0"`
}

// ApplyDefaults fills unset fields across every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Engine.NodeTimeout == 0 {
		c.Engine.NodeTimeout = 120
	}
	if c.Engine.HistoryLimit == 0 {
		c.Engine.HistoryLimit = 100
	}
	if c.Engine.CacheTTL == 0 {
		c.Engine.CacheTTL = 3 * 60 * 60
	}
	if c.Feed.ProbeSymbol == "" {
		c.Feed.ProbeSymbol = "RELIANCE"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
		c.Telemetry.Insecure = true
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.IntervalSeconds == 0 {
		c.Telemetry.IntervalSeconds = 15
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be within [0, 1] (got: %v)", c.Telemetry.SampleRate)
	}
	return nil
}
