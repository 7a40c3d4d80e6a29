package director

import (
	"time"

	"scalp-radar/internal/domain"
)

// CooldownWindow is how long after an emitted alert the ledger keeps gating
// follow-up alerts.
const CooldownWindow = 5 * time.Minute

// retestBandFraction is how close price must return to the fast EMA21 for the
// retest flag to arm, as a fraction of price.
const retestBandFraction = 0.0005

// gateCooldown decides whether an alert in dir may fire at now. Same-direction
// alerts are blocked for the full window. Opposite-direction alerts are let
// through early only when a retest has been observed since the last alert.
// The returned state carries the SameDirectionBlocked diagnostic flag.
func gateCooldown(c domain.AlertCooldownState, dir domain.Direction, now time.Time) (domain.AlertCooldownState, bool) {
	if !c.LastDirection.IsTradable() {
		return c, true
	}
	if now.Sub(c.LastAlertAt) >= CooldownWindow {
		return c, true
	}
	if dir == c.LastDirection {
		c.SameDirectionBlocked = true
		return c, false
	}
	return c, c.RetestSinceLastAlert
}

// consumeCooldown resets the ledger around a freshly emitted alert.
func consumeCooldown(dir domain.Direction, now time.Time) domain.AlertCooldownState {
	return domain.AlertCooldownState{
		LastDirection: dir,
		LastAlertAt:   now,
	}
}

// observeRetest arms the retest flag when price has pulled back to the fast
// EMA21 after an alert. The flag stays armed until the next alert consumes it.
func observeRetest(c domain.AlertCooldownState, price, emaRef float64) domain.AlertCooldownState {
	if !c.LastDirection.IsTradable() || c.RetestSinceLastAlert {
		return c
	}
	if emaRef <= 0 || price <= 0 {
		return c
	}
	diff := price - emaRef
	if diff < 0 {
		diff = -diff
	}
	if diff <= price*retestBandFraction {
		c.RetestSinceLastAlert = true
	}
	return c
}
