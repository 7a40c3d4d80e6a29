package director

import (
	"scalp-radar/internal/domain"
)

// Warm-up minimums per series; the slow series needs the full 52-bar span of
// the cloud calculation before the engine may act.
const (
	FastWarmup   = 30
	MediumWarmup = 20
	SlowWarmup   = 52
)

// Bias model constants. The decayed previous bias is the hysteresis seed: a
// single noisy bar moves the score, not the classification.
const (
	biasDecay          = 0.8
	biasEntryThreshold = 2.0
	biasExitThreshold  = 0.75
	biasClamp          = 6.0

	alignWeight    = 1.0
	momentumWeight = 0.8
	cloudWeight    = 0.6

	emaFastPeriod    = 9
	emaSlowPeriod    = 21
	momentumLookback = 10

	cloudConversionPeriod = 9
	cloudBasePeriod       = 26
	cloudSpanPeriod       = 52
)

// evaluateDirector recomputes the directional bias from the three series,
// seeded by the previous state. Entering a fresh trend requires price outside
// the cloud and bias beyond the entry threshold; an established trend
// survives until bias decays through the smaller exit threshold.
func evaluateDirector(fast, medium, slow []domain.Candle, prev domain.DirectorState) domain.DirectorState {
	closes := extractCloses(fast)
	price := closes[len(closes)-1]

	var contrib float64

	emaFast := emaLast(closes, emaFastPeriod)
	emaSlow := emaLast(closes, emaSlowPeriod)
	if emaFast > emaSlow {
		contrib += alignWeight
	} else if emaFast < emaSlow {
		contrib -= alignWeight
	}

	mediumCloses := extractCloses(medium)
	anchor := mediumCloses[len(mediumCloses)-1-momentumLookback]
	if anchor > 0 {
		if mediumCloses[len(mediumCloses)-1] > anchor {
			contrib += momentumWeight
		} else if mediumCloses[len(mediumCloses)-1] < anchor {
			contrib -= momentumWeight
		}
	}

	cloudTop, cloudBottom := cloudBounds(slow)
	insideCloud := price <= cloudTop && price >= cloudBottom
	if price > cloudTop {
		contrib += cloudWeight
	} else if price < cloudBottom {
		contrib -= cloudWeight
	}

	bias := clamp(biasDecay*prev.BiasScore+contrib, -biasClamp, biasClamp)

	regime := domain.RegimeChop
	switch {
	case !insideCloud && bias >= biasEntryThreshold:
		regime = domain.RegimeTrendUp
	case !insideCloud && bias <= -biasEntryThreshold:
		regime = domain.RegimeTrendDown
	case prev.Regime == domain.RegimeTrendUp && bias >= biasExitThreshold:
		regime = domain.RegimeTrendUp
	case prev.Regime == domain.RegimeTrendDown && bias <= -biasExitThreshold:
		regime = domain.RegimeTrendDown
	}

	return domain.DirectorState{
		Regime:      regime,
		BiasScore:   bias,
		InsideCloud: insideCloud,
	}
}

// cloudBounds derives an Ichimoku-style cloud from the slow series: span A is
// the midpoint of the 9- and 26-bar midlines, span B the 52-bar midline.
func cloudBounds(slow []domain.Candle) (top, bottom float64) {
	spanA := (midline(slow, cloudConversionPeriod) + midline(slow, cloudBasePeriod)) / 2
	spanB := midline(slow, cloudSpanPeriod)
	if spanA >= spanB {
		return spanA, spanB
	}
	return spanB, spanA
}

// midline is the midpoint of the highest high and lowest low over the last n bars.
func midline(candles []domain.Candle, n int) float64 {
	window := candles[len(candles)-n:]
	hi := window[0].High
	lo := window[0].Low
	for _, c := range window[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	return (hi + lo) / 2
}

func extractCloses(candles []domain.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}

func emaLast(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(period) + 1.0)
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
