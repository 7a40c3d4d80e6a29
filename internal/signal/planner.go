package signal

import (
	"math"
	"time"

	"scalp-radar/internal/domain"
)

// Planner constants: strike granularity, premium model, target multiples.
const (
	strikeStep = 5

	premiumBase       = 4.0
	premiumDecay      = 0.4
	premiumFloorBase  = 1.5
	premiumVolBonus   = 0.5
	premiumVolADXMin  = 25
	premiumClampLower = 1
	premiumClampUpper = 6

	target1Multiple = 1.5
	target2Multiple = 2.0
	target3Multiple = 3.0
	stopMultiple    = 0.5
)

// Plan derives a full trade recommendation from a non-NONE score and the
// current price. Deterministic given identical inputs; no side effects.
func Plan(score domain.SignalScore, snap domain.IndicatorSnapshot, now time.Time) *domain.TradeSignal {
	if !score.Direction.IsTradable() {
		return nil
	}
	snap = snap.Sanitized()
	price := snap.CurrentPrice

	strike := strikeFor(score.Direction, price)
	premium := estimatePremium(strike, price, snap.ADX)

	sig := &domain.TradeSignal{
		Type:             score.Direction,
		StrikePrice:      strike,
		EntryPrice:       price,
		EstimatedPremium: premium,
		ProfitTarget1:    round2(premium * target1Multiple),
		ProfitTarget2:    round2(premium * target2Multiple),
		ProfitTarget3:    round2(premium * target3Multiple),
		StopLoss:         round2(premium * stopMultiple),
		Reason:           score.Reason,
		Strength:         score.Strength,
		Timestamp:        now,
	}

	// Reference levels: a CALL rides toward R1 and is invalidated at S1; a
	// PUT is the mirror image.
	if score.Direction == domain.DirectionCall {
		sig.TargetSPXPrice = snap.PivotR1
		sig.StopSPXPrice = snap.PivotS1
	} else {
		sig.TargetSPXPrice = snap.PivotS1
		sig.StopSPXPrice = snap.PivotR1
	}
	return sig
}

// strikeFor rounds to the nearest $5 strike: CALLs up, PUTs down.
func strikeFor(dir domain.Direction, price float64) float64 {
	if dir == domain.DirectionCall {
		return math.Ceil(price/strikeStep) * strikeStep
	}
	return math.Floor(price/strikeStep) * strikeStep
}

func estimatePremium(strike, price, adx float64) float64 {
	premium := premiumBase - premiumDecay*math.Abs(strike-price)
	if premium < premiumFloorBase {
		premium = premiumFloorBase
	}
	if adx > premiumVolADXMin {
		premium += premiumVolBonus
	}
	if premium < premiumClampLower {
		premium = premiumClampLower
	}
	if premium > premiumClampUpper {
		premium = premiumClampUpper
	}
	return round2(premium)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
