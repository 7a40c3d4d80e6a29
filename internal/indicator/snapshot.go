// Package indicator condenses candle series into the per-tick snapshot the
// scorer consumes. All series math uses Wilder or EMA smoothing over the full
// input; callers are expected to pass enough history for the longest period.
package indicator

import (
	"math"

	"scalp-radar/internal/domain"
)

const (
	rsiPeriod            = 14
	adxPeriod            = 14
	supertrendPeriod     = 10
	supertrendMultiplier = 3.0
	ewoFastPeriod        = 5
	ewoSlowPeriod        = 35
	macdFastPeriod       = 12
	macdSlowPeriod       = 26
	macdSignalPeriod     = 9
)

// BuildSnapshot derives an indicator snapshot from an intraday series and the
// prior session's daily bar. Fields whose series are too short stay at their
// neutral defaults; the result is always sanitized.
func BuildSnapshot(candles []domain.Candle, priorDay *domain.Candle) domain.IndicatorSnapshot {
	snap := domain.IndicatorSnapshot{
		RSI:        50,
		SuperTrend: domain.TrendHold,
		EWO:        domain.TrendHold,
		MACDCross:  domain.CrossoverNone,
	}
	if len(candles) == 0 {
		return snap
	}

	closes := extractCloses(candles)
	snap.CurrentPrice = closes[len(closes)-1]

	if series := rsiSeries(closes, rsiPeriod); series != nil {
		snap.RSI = series[len(series)-1]
	}
	snap.ADX = adxLast(candles, adxPeriod)
	snap.SuperTrend = supertrendSignal(candles, supertrendPeriod, supertrendMultiplier)
	snap.EWO = ewoSignal(closes)
	snap.MACDCross = macdCrossover(closes)

	if priorDay != nil {
		p := (priorDay.High + priorDay.Low + priorDay.Close) / 3
		snap.PivotR1 = 2*p - priorDay.Low
		snap.PivotS1 = 2*p - priorDay.High
		snap.PivotR2 = p + (priorDay.High - priorDay.Low)
		snap.PivotS2 = p - (priorDay.High - priorDay.Low)
	}

	return snap.Sanitized()
}

// ewoSignal is the sign of the elliott wave oscillator, the spread between
// the 5- and 35-bar EMAs.
func ewoSignal(closes []float64) domain.TrendSignal {
	if len(closes) < ewoSlowPeriod {
		return domain.TrendHold
	}
	fast := emaSeries(closes, ewoFastPeriod)
	slow := emaSeries(closes, ewoSlowPeriod)
	spread := fast[len(fast)-1] - slow[len(slow)-1]
	switch {
	case spread > 0:
		return domain.TrendBuy
	case spread < 0:
		return domain.TrendSell
	default:
		return domain.TrendHold
	}
}

// macdCrossover reports which side of the signal line the MACD line sits on.
func macdCrossover(closes []float64) domain.Crossover {
	if len(closes) < macdSlowPeriod+macdSignalPeriod {
		return domain.CrossoverNone
	}
	macdLine, signalLine := macdSeries(closes, macdFastPeriod, macdSlowPeriod, macdSignalPeriod)
	n := len(macdLine) - 1
	switch {
	case macdLine[n] > signalLine[n]:
		return domain.CrossoverBullish
	case macdLine[n] < signalLine[n]:
		return domain.CrossoverBearish
	default:
		return domain.CrossoverNone
	}
}

// supertrendSignal runs the classic SuperTrend band flip over the series and
// reports the trailing trend direction.
func supertrendSignal(candles []domain.Candle, period int, multiplier float64) domain.TrendSignal {
	atr := atrSeries(candles, period)
	if atr == nil {
		return domain.TrendHold
	}

	var (
		finalUpper = math.NaN()
		finalLower = math.NaN()
		uptrend    = true
		seeded     = false
	)
	for i := period; i < len(candles); i++ {
		mid := (candles[i].High + candles[i].Low) / 2
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if !seeded {
			finalUpper = basicUpper
			finalLower = basicLower
			uptrend = candles[i].Close > mid
			seeded = true
			continue
		}

		prevClose := candles[i-1].Close
		if basicUpper < finalUpper || prevClose > finalUpper {
			finalUpper = basicUpper
		}
		if basicLower > finalLower || prevClose < finalLower {
			finalLower = basicLower
		}

		if candles[i].Close > finalUpper {
			uptrend = true
		} else if candles[i].Close < finalLower {
			uptrend = false
		}
	}

	if !seeded {
		return domain.TrendHold
	}
	if uptrend {
		return domain.TrendBuy
	}
	return domain.TrendSell
}

// adxLast computes the Wilder ADX and returns its trailing value, 0 when the
// series is too short for the double smoothing.
func adxLast(candles []domain.Candle, period int) float64 {
	if len(candles) <= 2*period {
		return 0
	}

	var trSum, plusSum, minusSum float64
	for i := 1; i <= period; i++ {
		tr, plus, minus := directionalMove(candles[i-1], candles[i])
		trSum += tr
		plusSum += plus
		minusSum += minus
	}

	var (
		dxSum   float64
		dxCount int
		adx     float64
	)
	for i := period + 1; i < len(candles); i++ {
		tr, plus, minus := directionalMove(candles[i-1], candles[i])
		trSum = trSum - trSum/float64(period) + tr
		plusSum = plusSum - plusSum/float64(period) + plus
		minusSum = minusSum - minusSum/float64(period) + minus

		dx := dxFrom(plusSum, minusSum, trSum)
		dxCount++
		if dxCount <= period {
			dxSum += dx
			adx = dxSum / float64(dxCount)
			continue
		}
		adx = (adx*float64(period-1) + dx) / float64(period)
	}
	return adx
}

func directionalMove(prev, cur domain.Candle) (tr, plusDM, minusDM float64) {
	tr = trueRange(prev, cur)
	upMove := cur.High - prev.High
	downMove := prev.Low - cur.Low
	if upMove > downMove && upMove > 0 {
		plusDM = upMove
	}
	if downMove > upMove && downMove > 0 {
		minusDM = downMove
	}
	return tr, plusDM, minusDM
}

func dxFrom(plusSum, minusSum, trSum float64) float64 {
	if trSum == 0 {
		return 0
	}
	plusDI := 100 * plusSum / trSum
	minusDI := 100 * minusSum / trSum
	if plusDI+minusDI == 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}

// atrSeries is Wilder-smoothed average true range; entries before the first
// full period are NaN.
func atrSeries(candles []domain.Candle, period int) []float64 {
	if len(candles) <= period {
		return nil
	}
	series := make([]float64, len(candles))
	for i := range series {
		series[i] = math.NaN()
	}

	var trSum float64
	for i := 1; i <= period; i++ {
		trSum += trueRange(candles[i-1], candles[i])
	}
	series[period] = trSum / float64(period)

	for i := period + 1; i < len(candles); i++ {
		tr := trueRange(candles[i-1], candles[i])
		series[i] = (series[i-1]*float64(period-1) + tr) / float64(period)
	}
	return series
}

func trueRange(prev, cur domain.Candle) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

func rsiSeries(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nil
	}
	series := make([]float64, len(closes))
	for i := range series {
		series[i] = math.NaN()
	}

	var gainSum float64
	var lossSum float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiFromAvg(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiFromAvg(avgGain, avgLoss)
	}

	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

func macdSeries(values []float64, fast, slow, signal int) ([]float64, []float64) {
	fastEMA := emaSeries(values, fast)
	slowEMA := emaSeries(values, slow)
	macdLine := make([]float64, len(values))
	for i := range values {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := emaSeries(macdLine, signal)
	return macdLine, signalLine
}

func emaSeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func extractCloses(candles []domain.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}
