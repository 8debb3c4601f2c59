package dag

import (
	"context"
	stderrors "errors"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tradeflowhq/tradeflow/logger"
	"github.com/tradeflowhq/tradeflow/observability"
)

func noopMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	m, err := observability.NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func TestWithTracing_ForwardsRun(t *testing.T) {
	inner := echoUnit(Payload{"value": "traced"})

	traced := WithTracing(inner, "dag", "scouting")
	output, err := traced.Run(context.Background(), Payload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output["value"] != "traced" {
		t.Fatalf("expected 'traced', got %v", output["value"])
	}
}

func TestWithTracing_PropagatesError(t *testing.T) {
	unitErr := stderrors.New("fail")
	inner := UnitFunc(nil, func(_ context.Context, _ Payload) (Payload, error) {
		return nil, unitErr
	})

	traced := WithTracing(inner, "dag", "scouting")
	_, err := traced.Run(context.Background(), Payload{})
	if !stderrors.Is(err, unitErr) {
		t.Fatalf("expected unit error, got %v", err)
	}
}

func TestWithTracing_ForwardsValidate(t *testing.T) {
	inner := UnitFunc(func(input Payload) bool {
		_, ok := input["required"]
		return ok
	}, func(_ context.Context, _ Payload) (Payload, error) {
		return Payload{}, nil
	})

	traced := WithTracing(inner, "dag", "scouting")
	if traced.Validate(Payload{}) {
		t.Fatal("expected Validate to reject")
	}
	if !traced.Validate(Payload{"required": 1}) {
		t.Fatal("expected Validate to accept")
	}
}

func TestWithLogging_Success(t *testing.T) {
	log := logger.NewDefault("dag-test")
	inner := echoUnit(Payload{"value": "logged"})

	logged := WithLogging(inner, "scouting", log)
	output, err := logged.Run(context.Background(), Payload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output["value"] != "logged" {
		t.Fatalf("expected 'logged', got %v", output["value"])
	}
}

func TestWithLogging_Error(t *testing.T) {
	log := logger.NewDefault("dag-test")
	unitErr := stderrors.New("fail")
	inner := UnitFunc(nil, func(_ context.Context, _ Payload) (Payload, error) {
		return nil, unitErr
	})

	logged := WithLogging(inner, "scouting", log)
	_, err := logged.Run(context.Background(), Payload{})
	if !stderrors.Is(err, unitErr) {
		t.Fatalf("expected unit error, got %v", err)
	}
}

func TestWithNodeMetrics_Success(t *testing.T) {
	inner := echoUnit(Payload{"value": "measured"})

	measured := WithNodeMetrics(inner, "scouting", noopMetrics(t))
	output, err := measured.Run(context.Background(), Payload{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output["value"] != "measured" {
		t.Fatalf("expected 'measured', got %v", output["value"])
	}
}

func TestWithNodeMetrics_Error(t *testing.T) {
	unitErr := stderrors.New("fail")
	inner := UnitFunc(nil, func(_ context.Context, _ Payload) (Payload, error) {
		return nil, unitErr
	})

	measured := WithNodeMetrics(inner, "scouting", noopMetrics(t))
	_, err := measured.Run(context.Background(), Payload{})
	if !stderrors.Is(err, unitErr) {
		t.Fatalf("expected unit error, got %v", err)
	}
}

func TestWithTracing_AsUnitWrapper(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDecl{
			{ID: "a", Uses: "unit"},
			{ID: "b", Uses: "unit"},
		},
		Edges: []Edge{{From: "a", To: "b"}},
	}

	engine, err := New(g, singleUnitRegistry(echoUnit(Payload{"ok": true})),
		WithUnitWrapper(func(nodeID string, u Unit) Unit {
			return WithTracing(u, "dag", nodeID)
		}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run, err := engine.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", run.Status)
	}
}
