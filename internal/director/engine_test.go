package director

import (
	"testing"
	"time"

	"scalp-radar/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func allowPush(time.Time) bool { return true }
func denyPush(time.Time) bool  { return false }

func appendBar(series []domain.Candle, inc float64, step time.Duration) []domain.Candle {
	prev := series[len(series)-1]
	c := prev.Close + inc
	return append(series, domain.Candle{
		Timeframe: prev.Timeframe,
		OpenTime:  prev.OpenTime.Add(step),
		Open:      prev.Close,
		High:      c + 0.1,
		Low:       prev.Close - 0.1,
		Close:     c,
	})
}

func TestEngineWarmupLeavesStateUntouched(t *testing.T) {
	clk := &fakeClock{t: baseTime}
	eng := NewEngine(clk.now, allowPush)

	fast := risingSeries(domain.TimeframeFast, FastWarmup-1, 100, 0.5, time.Minute)
	medium := risingSeries(domain.TimeframeMedium, MediumWarmup, 98, 0.5, 5*time.Minute)
	slow := flatSeries(domain.TimeframeSlow, SlowWarmup, 55, 15*time.Minute)

	if alert := eng.Tick(fast, medium, slow); alert != nil {
		t.Fatalf("under-warm fast series must not alert, got %+v", alert)
	}
	if got := eng.Director(); got != (domain.DirectorState{Regime: domain.RegimeChop}) {
		t.Fatalf("director state mutated during warm-up: %+v", got)
	}
	if got := eng.Cooldown(); got != (domain.AlertCooldownState{LastDirection: domain.DirectionNone}) {
		t.Fatalf("cooldown ledger mutated during warm-up: %+v", got)
	}
}

func TestEngineDuplicateBarIsIdempotent(t *testing.T) {
	clk := &fakeClock{t: baseTime}
	eng := NewEngine(clk.now, allowPush)

	fast := risingSeries(domain.TimeframeFast, 40, 100, 0.5, time.Minute)
	medium := risingSeries(domain.TimeframeMedium, 25, 98, 0.5, 5*time.Minute)
	slow := flatSeries(domain.TimeframeSlow, 60, 55, 15*time.Minute)

	eng.Tick(fast, medium, slow)
	director := eng.Director()
	trap := eng.Trap()
	cooldown := eng.Cooldown()

	if alert := eng.Tick(fast, medium, slow); alert != nil {
		t.Fatalf("repeated trailing bar must not alert, got %+v", alert)
	}
	if got := eng.Director(); got != director {
		t.Fatalf("director state changed on duplicate bar: %+v vs %+v", got, director)
	}
	if got := eng.Trap(); got != trap {
		t.Fatalf("trap state changed on duplicate bar: %+v vs %+v", got, trap)
	}
	if got := eng.Cooldown(); got != cooldown {
		t.Fatalf("cooldown state changed on duplicate bar: %+v vs %+v", got, cooldown)
	}
}

func TestEngineTrendAlertAndCooldown(t *testing.T) {
	clk := &fakeClock{t: baseTime}
	eng := NewEngine(clk.now, allowPush)

	fast := risingSeries(domain.TimeframeFast, 40, 100, 0.5, time.Minute)
	medium := risingSeries(domain.TimeframeMedium, 25, 98, 0.5, 5*time.Minute)
	slow := flatSeries(domain.TimeframeSlow, 60, 55, 15*time.Minute)

	alert := eng.Tick(fast, medium, slow)
	if alert == nil {
		t.Fatal("aligned uptrend should produce an alert")
	}
	if alert.Direction != domain.DirectionCall {
		t.Fatalf("direction = %s, want %s", alert.Direction, domain.DirectionCall)
	}
	inDelta(t, 0.74, alert.Confidence, 1e-9)
	if alert.ShouldPush {
		t.Fatal("confidence below the push floor must not push")
	}
	if got := eng.Cooldown().LastDirection; got != domain.DirectionCall {
		t.Fatalf("ledger direction = %s, want %s", got, domain.DirectionCall)
	}

	// next bar inside the window, same direction: suppressed
	clk.t = baseTime.Add(time.Minute)
	fast = appendBar(fast, 0.5, time.Minute)
	if a := eng.Tick(fast, medium, slow); a != nil {
		t.Fatalf("same-direction alert inside the window must be suppressed, got %+v", a)
	}
	if !eng.Cooldown().SameDirectionBlocked {
		t.Fatal("expected the suppression to be flagged on the ledger")
	}

	// past the window the same direction fires again, now confident enough to push
	clk.t = baseTime.Add(CooldownWindow + time.Minute)
	fast = appendBar(fast, 0.5, time.Minute)
	alert = eng.Tick(fast, medium, slow)
	if alert == nil {
		t.Fatal("expired window should allow the next alert")
	}
	if !alert.ShouldPush {
		t.Fatalf("confidence %v past the floor should push", alert.Confidence)
	}
	if !alert.Timestamp.Equal(clk.t) {
		t.Fatalf("alert timestamp = %v, want %v", alert.Timestamp, clk.t)
	}
}

func TestEnginePushGateDeniesOutsideSession(t *testing.T) {
	clk := &fakeClock{t: baseTime}
	eng := NewEngine(clk.now, denyPush)

	fast := risingSeries(domain.TimeframeFast, 40, 100, 0.5, time.Minute)
	medium := risingSeries(domain.TimeframeMedium, 25, 98, 0.5, 5*time.Minute)
	slow := flatSeries(domain.TimeframeSlow, 60, 55, 15*time.Minute)

	// build bias over two bars so confidence clears the floor
	eng.Tick(fast, medium, slow)
	clk.t = baseTime.Add(CooldownWindow + time.Minute)
	fast = appendBar(fast, 0.5, time.Minute)

	alert := eng.Tick(fast, medium, slow)
	if alert == nil {
		t.Fatal("expected a trend alert")
	}
	if alert.Confidence < pushConfidenceFloor {
		t.Fatalf("test setup: confidence %v should clear the floor", alert.Confidence)
	}
	if alert.ShouldPush {
		t.Fatal("push gate denial must clear ShouldPush")
	}
}
