package signal

import (
	"fmt"
	"strings"

	"scalp-radar/internal/domain"
)

// Scoring weights and thresholds. Fixed constants, not configuration.
const (
	rsiOversoldHard   = 30
	rsiOversoldSoft   = 40
	rsiOversoldEdge   = 45
	rsiOverboughtHard = 70
	rsiOverboughtSoft = 60
	rsiOverboughtEdge = 55

	rsiWeightHard = 3
	rsiWeightSoft = 2
	rsiWeightEdge = 1

	superTrendWeight = 2.5
	ewoWeight        = 2
	macdWeight       = 3

	outerPivotNearWeight = 4
	outerPivotFarWeight  = 3
	innerPivotNearWeight = 2.5
	innerPivotFarWeight  = 1.5
	pivotNearDistance    = 3
	pivotFarDistance     = 8

	adxStrongTrend   = 30
	adxTrend         = 25
	adxWeakTrend     = 20
	multiplierStrong = 1.8
	multiplierTrend  = 1.5
	multiplierWeak   = 1.2

	minScoreDiff  = 1.5
	minScoreTotal = 3

	strengthHighFloor   = 12
	strengthMediumFloor = 7

	reasonSeparator = " | "
	fallbackReason  = "momentum building"
)

// Score converts an indicator snapshot into a directional score. It is a pure
// function: no carried state, never fails. Malformed fields are neutralized
// before scoring; an ambiguous or weak composite yields direction NONE.
func Score(snap domain.IndicatorSnapshot) domain.SignalScore {
	snap = snap.Sanitized()

	var bullish, bearish float64
	reasons := make([]string, 0, 4)

	switch {
	case snap.RSI < rsiOversoldHard:
		bullish += rsiWeightHard
		reasons = append(reasons, fmt.Sprintf("RSI oversold at %.1f", snap.RSI))
	case snap.RSI < rsiOversoldSoft:
		bullish += rsiWeightSoft
		reasons = append(reasons, fmt.Sprintf("RSI recovering at %.1f", snap.RSI))
	case snap.RSI < rsiOversoldEdge:
		bullish += rsiWeightEdge
	}
	switch {
	case snap.RSI > rsiOverboughtHard:
		bearish += rsiWeightHard
		reasons = append(reasons, fmt.Sprintf("RSI overbought at %.1f", snap.RSI))
	case snap.RSI > rsiOverboughtSoft:
		bearish += rsiWeightSoft
		reasons = append(reasons, fmt.Sprintf("RSI stretched at %.1f", snap.RSI))
	case snap.RSI > rsiOverboughtEdge:
		bearish += rsiWeightEdge
	}

	switch snap.SuperTrend {
	case domain.TrendBuy:
		bullish += superTrendWeight
		reasons = append(reasons, "SuperTrend flipped bullish")
	case domain.TrendSell:
		bearish += superTrendWeight
		reasons = append(reasons, "SuperTrend flipped bearish")
	}

	switch snap.EWO {
	case domain.TrendBuy:
		bullish += ewoWeight
	case domain.TrendSell:
		bearish += ewoWeight
	}

	switch snap.MACDCross {
	case domain.CrossoverBullish:
		bullish += macdWeight
		reasons = append(reasons, "MACD bullish crossover")
	case domain.CrossoverBearish:
		bearish += macdWeight
		reasons = append(reasons, "MACD bearish crossover")
	}

	if pts, label := pivotProximity(snap.CurrentPrice, snap.PivotS2, snap.PivotS1, "S2", "S1"); pts > 0 {
		bullish += pts
		reasons = append(reasons, "price near "+label+" support")
	}
	if pts, label := pivotProximity(snap.CurrentPrice, snap.PivotR2, snap.PivotR1, "R2", "R1"); pts > 0 {
		bearish += pts
		reasons = append(reasons, "price near "+label+" resistance")
	}

	multiplier := trendMultiplier(snap.ADX)
	if multiplier > 1 {
		reasons = append(reasons, fmt.Sprintf("trending market (ADX %.1f)", snap.ADX))
	}
	bullish *= multiplier
	bearish *= multiplier

	score := domain.SignalScore{
		Bullish:   bullish,
		Bearish:   bearish,
		Direction: domain.DirectionNone,
	}

	diff := bullish - bearish
	total := bullish
	if bearish > total {
		total = bearish
	}
	// Dead zone: ambiguous or weak composites never produce a signal.
	if diff < minScoreDiff && diff > -minScoreDiff {
		return score
	}
	if total < minScoreTotal {
		return score
	}

	if diff > 0 {
		score.Direction = domain.DirectionCall
	} else {
		score.Direction = domain.DirectionPut
	}
	switch {
	case total > strengthHighFloor:
		score.Strength = domain.StrengthHigh
	case total > strengthMediumFloor:
		score.Strength = domain.StrengthMedium
	default:
		score.Strength = domain.StrengthLow
	}

	if len(reasons) == 0 {
		score.Reason = fallbackReason
	} else {
		score.Reason = strings.Join(reasons, reasonSeparator)
	}
	return score
}

// pivotProximity awards points for price sitting close to a pivot pair. The
// outer level (S2/R2) is checked first at the higher weights; only if it does
// not qualify is the inner level (S1/R1) considered. Absent levels (0) are
// skipped.
func pivotProximity(price, outer, inner float64, outerLabel, innerLabel string) (float64, string) {
	if price <= 0 {
		return 0, ""
	}
	if outer > 0 {
		d := absFloat(price - outer)
		if d < pivotNearDistance {
			return outerPivotNearWeight, outerLabel
		}
		if d < pivotFarDistance {
			return outerPivotFarWeight, outerLabel
		}
	}
	if inner > 0 {
		d := absFloat(price - inner)
		if d < pivotNearDistance {
			return innerPivotNearWeight, innerLabel
		}
		if d < pivotFarDistance {
			return innerPivotFarWeight, innerLabel
		}
	}
	return 0, ""
}

func trendMultiplier(adx float64) float64 {
	switch {
	case adx >= adxStrongTrend:
		return multiplierStrong
	case adx >= adxTrend:
		return multiplierTrend
	case adx >= adxWeakTrend:
		return multiplierWeak
	default:
		return 1.0
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
