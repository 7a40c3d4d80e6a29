package director

import "scalp-radar/internal/domain"

const (
	trapLookback = 10
	trapHoldBars = 3
)

// evaluateTrap looks for a false breakout on the latest fast bar: a wick past
// the prior 10-bar extreme that closes back inside the range, against the
// prevailing regime. A fresh detection arms trap mode for trapHoldBars bars;
// otherwise the previous countdown decays by one.
func evaluateTrap(fast []domain.Candle, dir domain.DirectorState, prev domain.TrapModeResult) domain.TrapModeResult {
	latest := fast[len(fast)-1]
	window := fast[len(fast)-1-trapLookback : len(fast)-1]

	priorHigh := window[0].High
	priorLow := window[0].Low
	for _, c := range window[1:] {
		if c.High > priorHigh {
			priorHigh = c.High
		}
		if c.Low < priorLow {
			priorLow = c.Low
		}
	}

	bullTrap := dir.Regime == domain.RegimeTrendUp &&
		latest.High > priorHigh &&
		latest.Close < priorHigh &&
		latest.Close < latest.Open

	bearTrap := dir.Regime == domain.RegimeTrendDown &&
		latest.Low < priorLow &&
		latest.Close > priorLow &&
		latest.Close > latest.Open

	switch {
	case bullTrap:
		return domain.TrapModeResult{Active: true, Type: domain.TrapBull, BarsRemaining: trapHoldBars}
	case bearTrap:
		return domain.TrapModeResult{Active: true, Type: domain.TrapBear, BarsRemaining: trapHoldBars}
	case prev.Active && prev.BarsRemaining > 1:
		return domain.TrapModeResult{Active: true, Type: prev.Type, BarsRemaining: prev.BarsRemaining - 1}
	default:
		return domain.TrapModeResult{Type: domain.TrapNone}
	}
}
