package director

import (
	"fmt"
	"sync"
	"time"

	"scalp-radar/internal/domain"
)

const (
	trendConfidenceBase  = 0.5
	trendConfidenceCap   = 0.95
	trapConfidence       = 0.8
	pushConfidenceFloor  = 0.75
	biasConfidenceScaler = 10.0
)

// Engine threads director, trap and cooldown state across ticks for a single
// instrument. Tick is the only mutating entry point; the projection methods
// take a read lock so handlers can poll concurrently.
type Engine struct {
	now         func() time.Time
	pushAllowed func(time.Time) bool

	mu       sync.RWMutex
	director domain.DirectorState
	trap     domain.TrapModeResult
	cooldown domain.AlertCooldownState
	lastBar  time.Time
}

// NewEngine builds an engine with a neutral starting state. pushAllowed gates
// ShouldPush on the emitted alerts; pass domain.MarketOpen for live use.
func NewEngine(now func() time.Time, pushAllowed func(time.Time) bool) *Engine {
	if now == nil {
		now = time.Now
	}
	if pushAllowed == nil {
		pushAllowed = domain.MarketOpen
	}
	return &Engine{
		now:         now,
		pushAllowed: pushAllowed,
		director:    domain.DirectorState{Regime: domain.RegimeChop},
		trap:        domain.TrapModeResult{Type: domain.TrapNone},
		cooldown:    domain.AlertCooldownState{LastDirection: domain.DirectionNone},
	}
}

// Tick ingests the latest fast/medium/slow series and returns an alert when
// one clears the cooldown gate, nil otherwise. Under-warm series and a
// repeated trailing bar leave the state untouched.
func (e *Engine) Tick(fast, medium, slow []domain.Candle) *domain.ScalpAlert {
	if len(fast) < FastWarmup || len(medium) < MediumWarmup || len(slow) < SlowWarmup {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	barTime := fast[len(fast)-1].OpenTime
	if barTime.Equal(e.lastBar) {
		return nil
	}
	e.lastBar = barTime

	e.director = evaluateDirector(fast, medium, slow, e.director)
	e.trap = evaluateTrap(fast, e.director, e.trap)

	closes := extractCloses(fast)
	price := closes[len(closes)-1]
	e.cooldown = observeRetest(e.cooldown, price, emaLast(closes, emaSlowPeriod))

	dir, confidence, explanation := e.propose(price, emaLast(closes, emaFastPeriod))
	if !dir.IsTradable() {
		return nil
	}

	now := e.now()
	next, ok := gateCooldown(e.cooldown, dir, now)
	e.cooldown = next
	if !ok {
		return nil
	}
	e.cooldown = consumeCooldown(dir, now)

	return &domain.ScalpAlert{
		Direction:   dir,
		Explanation: explanation,
		Confidence:  confidence,
		ShouldPush:  confidence >= pushConfidenceFloor && e.pushAllowed(now),
		Timestamp:   now,
	}
}

// propose derives an alert candidate from the current director and trap
// state. Trap mode wins: a failed breakout is traded against the trend.
func (e *Engine) propose(price, emaFast float64) (domain.Direction, float64, string) {
	if e.trap.Active {
		switch e.trap.Type {
		case domain.TrapBull:
			return domain.DirectionPut, trapConfidence,
				"bull trap: breakout above recent highs rejected, fading the move"
		case domain.TrapBear:
			return domain.DirectionCall, trapConfidence,
				"bear trap: breakdown below recent lows rejected, fading the move"
		}
	}

	bias := e.director.BiasScore
	confidence := trendConfidenceBase + abs(bias)/biasConfidenceScaler
	if confidence > trendConfidenceCap {
		confidence = trendConfidenceCap
	}

	switch {
	case e.director.Regime == domain.RegimeTrendUp && price > emaFast:
		return domain.DirectionCall, confidence,
			fmt.Sprintf("uptrend continuation, bias %.1f with price above fast EMA", bias)
	case e.director.Regime == domain.RegimeTrendDown && price < emaFast:
		return domain.DirectionPut, confidence,
			fmt.Sprintf("downtrend continuation, bias %.1f with price below fast EMA", bias)
	}
	return domain.DirectionNone, 0, ""
}

// Director returns a copy of the current director state.
func (e *Engine) Director() domain.DirectorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.director
}

// Trap returns a copy of the current trap state.
func (e *Engine) Trap() domain.TrapModeResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trap
}

// Cooldown returns a copy of the current cooldown ledger.
func (e *Engine) Cooldown() domain.AlertCooldownState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cooldown
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
