package marketdata

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/tradeflowhq/tradeflow/errors"
)

func TestSimProvider_CandlesDeterministic(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	first, err := p.Candles(context.Background(), "RELIANCE", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Candles(context.Background(), "RELIANCE", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].Close != second[i].Close {
			t.Fatalf("close %d differs between calls: %v vs %v", i, first[i].Close, second[i].Close)
		}
		if first[i].Volume != second[i].Volume {
			t.Fatalf("volume %d differs between calls: %d vs %d", i, first[i].Volume, second[i].Volume)
		}
	}
}

func TestSimProvider_SymbolsDiffer(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	a, err := p.Candles(context.Background(), "RELIANCE", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Candles(context.Background(), "TCS", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	same := true
	for i := range a {
		if a[i].Close != b[i].Close {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different symbols to produce different series")
	}
}

func TestSimProvider_CandleShape(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	candles, err := p.Candles(context.Background(), "INFY", 66)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 66 {
		t.Fatalf("expected 66 candles, got %d", len(candles))
	}

	for i, c := range candles {
		if c.High < c.Open || c.High < c.Close || c.High < c.Low {
			t.Errorf("candle %d: high %v below open/close/low", i, c.High)
		}
		if c.Low > c.Open || c.Low > c.Close {
			t.Errorf("candle %d: low %v above open/close", i, c.Low)
		}
		if c.Close <= 0 {
			t.Errorf("candle %d: non-positive close %v", i, c.Close)
		}
		if c.Volume <= 0 {
			t.Errorf("candle %d: non-positive volume %d", i, c.Volume)
		}
	}
}

func TestSimProvider_WeekdaysOldestFirst(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	candles, err := p.Candles(context.Background(), "HDFC", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range candles {
		if wd := c.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("candle %d dated on a weekend: %s", i, c.Date)
		}
		if i > 0 && !candles[i-1].Date.Before(c.Date) {
			t.Errorf("dates not ascending at %d: %s then %s", i, candles[i-1].Date, c.Date)
		}
	}
}

func TestSimProvider_RejectsBadArgs(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	if _, err := p.Candles(context.Background(), "", 10); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty symbol, got %v", err)
	}
	if _, err := p.Candles(context.Background(), "TCS", 0); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for zero days, got %v", err)
	}
	if _, err := p.Headlines(context.Background(), "", 5); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty symbol, got %v", err)
	}
}

func TestSimProvider_Headlines(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	headlines, err := p.Headlines(context.Background(), "RELIANCE", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headlines) != 5 {
		t.Fatalf("expected 5 headlines, got %d", len(headlines))
	}
	for i, h := range headlines {
		if !strings.Contains(h, "RELIANCE") {
			t.Errorf("headline %d missing symbol: %q", i, h)
		}
	}

	again, err := p.Headlines(context.Background(), "RELIANCE", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range headlines {
		if headlines[i] != again[i] {
			t.Errorf("headline %d differs between calls: %q vs %q", i, headlines[i], again[i])
		}
	}
}

func TestSimProvider_HeadlinesDefaultCount(t *testing.T) {
	p := NewSimProvider(DefaultSimConfig())

	headlines, err := p.Headlines(context.Background(), "TCS", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headlines) != defaultHeadlineCount {
		t.Errorf("expected %d headlines, got %d", defaultHeadlineCount, len(headlines))
	}
}

func TestSimProvider_LatencyHonorsContext(t *testing.T) {
	p := NewSimProvider(SimConfig{Latency: 500 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Candles(ctx, "TCS", 10)
	elapsed := time.Since(start)

	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed > 200*time.Millisecond {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}

func TestCloses(t *testing.T) {
	candles := []Candle{{Close: 1.5}, {Close: 2.5}, {Close: 3.5}}

	closes := Closes(candles)
	if len(closes) != 3 || closes[0] != 1.5 || closes[2] != 3.5 {
		t.Errorf("unexpected closes: %v", closes)
	}
}

func TestVolumes(t *testing.T) {
	candles := []Candle{{Volume: 100}, {Volume: 200}}

	volumes := Volumes(candles)
	if len(volumes) != 2 || volumes[0] != 100 || volumes[1] != 200 {
		t.Errorf("unexpected volumes: %v", volumes)
	}
}
