package main

import (
	"testing"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != "tradeflow" {
		t.Errorf("expected name 'tradeflow', got %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Engine.NodeTimeout != 120 {
		t.Errorf("expected node timeout 120s, got %d", cfg.Engine.NodeTimeout)
	}
	if cfg.Engine.HistoryLimit != 100 {
		t.Errorf("expected history limit 100, got %d", cfg.Engine.HistoryLimit)
	}
	if cfg.Engine.CacheTTL != 3*60*60 {
		t.Errorf("expected cache ttl 3h, got %ds", cfg.Engine.CacheTTL)
	}
	if cfg.Feed.ProbeSymbol != "RELIANCE" {
		t.Errorf("expected probe symbol RELIANCE, got %q", cfg.Feed.ProbeSymbol)
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidateRejectsBadSampleRate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Telemetry.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sample rate above 1")
	}
}

func TestParseInputs(t *testing.T) {
	input, err := parseInputs([]string{
		`symbols=["TCS","INFY"]`,
		"days=30",
		"note=hello world",
	})
	if err != nil {
		t.Fatalf("parseInputs: %v", err)
	}

	symbols, ok := input["symbols"].([]any)
	if !ok || len(symbols) != 2 {
		t.Errorf("expected JSON list for symbols, got %#v", input["symbols"])
	}
	if days, ok := input["days"].(float64); !ok || days != 30 {
		t.Errorf("expected numeric days, got %#v", input["days"])
	}
	if input["note"] != "hello world" {
		t.Errorf("expected raw string fallback, got %#v", input["note"])
	}
}

func TestParseInputsRejectsMalformed(t *testing.T) {
	if _, err := parseInputs([]string{"novalue"}); err == nil {
		t.Fatal("expected error for entry without '='")
	}
	if _, err := parseInputs([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestParseInputsEmpty(t *testing.T) {
	input, err := parseInputs(nil)
	if err != nil {
		t.Fatalf("parseInputs: %v", err)
	}
	if input != nil {
		t.Errorf("expected nil payload, got %#v", input)
	}
}
