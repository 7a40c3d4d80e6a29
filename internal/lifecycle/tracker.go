package lifecycle

import (
	"sync"
	"time"

	"scalp-radar/internal/domain"
)

// Notifier receives creation side effects for high-conviction signals.
// Implementations must tolerate being called from the tick path; errors and
// panics are swallowed by the tracker.
type Notifier interface {
	NotifySignal(sig domain.TradeSignal)
}

// Tracker follows one active recommendation per instrument through
// PENDING -> ACTIVE -> {PROFIT, STOPPED}. All mutation happens on the tick
// path (single logical writer); the mutex only protects read projections.
type Tracker struct {
	now           func() time.Time
	alertsEnabled func() bool
	notifier      Notifier

	mu        sync.RWMutex
	state     domain.LifecycleState
	signal    *domain.TradeSignal
	adoptedAt time.Time
	startedAt time.Time
}

func NewTracker(now func() time.Time, alertsEnabled func() bool, notifier Notifier) *Tracker {
	if now == nil {
		now = time.Now
	}
	if alertsEnabled == nil {
		alertsEnabled = func() bool { return true }
	}
	return &Tracker{
		now:           now,
		alertsEnabled: alertsEnabled,
		notifier:      notifier,
		state:         domain.LifecycleNone,
	}
}

// Offer proposes a freshly planned signal. A signal whose identity key equals
// the tracked one is a re-delivery and is ignored entirely; a changed key
// replaces the tracked signal at PENDING. LOW-strength signals are adopted
// only when nothing is tracked, and never fire notification side effects.
// Returns whether the signal was adopted.
func (t *Tracker) Offer(sig *domain.TradeSignal) bool {
	if sig == nil {
		return false
	}

	t.mu.Lock()
	if t.signal != nil && t.signal.Key() == sig.Key() {
		t.mu.Unlock()
		return false
	}

	if sig.Strength == domain.StrengthLow && t.signal != nil {
		t.mu.Unlock()
		return false
	}

	cp := *sig
	t.signal = &cp
	t.state = domain.LifecyclePending
	t.adoptedAt = t.now()
	t.startedAt = time.Time{}
	notify := sig.Strength == domain.StrengthHigh && t.alertsEnabled() && t.notifier != nil
	t.mu.Unlock()

	if notify {
		t.dispatch(cp)
	}
	return true
}

// Start is the explicit "start tracking" action: PENDING -> ACTIVE, resetting
// the signal's reference timestamp and the elapsed counter.
func (t *Tracker) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != domain.LifecyclePending || t.signal == nil {
		return false
	}
	t.state = domain.LifecycleActive
	t.startedAt = t.now()
	t.signal.Timestamp = t.startedAt
	return true
}

// Tick re-evaluates an ACTIVE recommendation against the current price. A
// CALL profits at or above its SPX target and stops at or below its SPX stop;
// a PUT is exactly inverted. Reference levels of zero (absent pivots) never
// trigger a transition.
func (t *Tracker) Tick(price float64) domain.LifecycleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != domain.LifecycleActive || t.signal == nil {
		return t.state
	}

	target := t.signal.TargetSPXPrice
	stop := t.signal.StopSPXPrice
	switch t.signal.Type {
	case domain.DirectionCall:
		if target > 0 && price >= target {
			t.state = domain.LifecycleProfit
		} else if stop > 0 && price <= stop {
			t.state = domain.LifecycleStopped
		}
	case domain.DirectionPut:
		if target > 0 && price <= target {
			t.state = domain.LifecycleProfit
		} else if stop > 0 && price >= stop {
			t.state = domain.LifecycleStopped
		}
	}
	return t.state
}

// Clear discards the tracked signal from any state.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = domain.LifecycleNone
	t.signal = nil
	t.adoptedAt = time.Time{}
	t.startedAt = time.Time{}
}

// Current returns a copy of the tracked signal, or nil.
func (t *Tracker) Current() *domain.TradeSignal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.signal == nil {
		return nil
	}
	cp := *t.signal
	return &cp
}

func (t *Tracker) State() domain.LifecycleState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Elapsed reports time since the state's reference point: adoption while
// PENDING, activation afterwards. Zero when nothing is tracked.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch {
	case t.signal == nil:
		return 0
	case t.state == domain.LifecyclePending:
		return t.now().Sub(t.adoptedAt)
	case !t.startedAt.IsZero():
		return t.now().Sub(t.startedAt)
	default:
		return t.now().Sub(t.adoptedAt)
	}
}

// dispatch shields the tick path from notifier failures.
func (t *Tracker) dispatch(sig domain.TradeSignal) {
	defer func() {
		_ = recover()
	}()
	t.notifier.NotifySignal(sig)
}
