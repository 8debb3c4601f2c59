package component

import "testing"

func TestNewServiceHealth(t *testing.T) {
	sh := NewServiceHealth("tradeflow", "1.0.0")

	if sh.Service != "tradeflow" {
		t.Errorf("expected Service 'tradeflow', got %s", sh.Service)
	}
	if sh.Version != "1.0.0" {
		t.Errorf("expected Version '1.0.0', got %s", sh.Version)
	}
	if sh.Status != StatusHealthy {
		t.Errorf("expected status 'healthy', got %s", sh.Status)
	}
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("tradeflow", "1.0.0")

	sh.AddComponent(Health{Name: "market-data", Status: StatusHealthy})
	if sh.Status != StatusHealthy {
		t.Errorf("expected status 'healthy' after healthy component, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "engine", Status: StatusDegraded, Message: "slow feed"})
	if sh.Status != StatusDegraded {
		t.Errorf("expected status 'degraded', got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "http-server", Status: StatusUnhealthy, Message: "not listening"})
	if sh.Status != StatusUnhealthy {
		t.Errorf("expected status 'unhealthy', got %s", sh.Status)
	}

	if len(sh.Components) != 3 {
		t.Errorf("expected 3 components, got %d", len(sh.Components))
	}
}

func TestServiceHealth_DegradedDoesNotOverrideUnhealthy(t *testing.T) {
	sh := NewServiceHealth("tradeflow", "1.0.0")
	sh.AddComponent(Health{Name: "a", Status: StatusUnhealthy})
	sh.AddComponent(Health{Name: "b", Status: StatusDegraded})

	if sh.Status != StatusUnhealthy {
		t.Errorf("expected 'unhealthy' not overridden by 'degraded', got %s", sh.Status)
	}
}
