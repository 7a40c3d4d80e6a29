package signal

import (
	"testing"
	"time"

	"scalp-radar/internal/domain"
)

func callScore() domain.SignalScore {
	return domain.SignalScore{
		Bullish:   9,
		Direction: domain.DirectionCall,
		Strength:  domain.StrengthMedium,
		Reason:    "MACD bullish crossover",
	}
}

func TestPlanReturnsNilForNoneDirection(t *testing.T) {
	score := domain.SignalScore{Direction: domain.DirectionNone}
	if got := Plan(score, domain.IndicatorSnapshot{CurrentPrice: 5000}, time.Now()); got != nil {
		t.Fatalf("expected nil plan for NONE direction, got %+v", got)
	}
}

func TestPlanStrikeRounding(t *testing.T) {
	cases := []struct {
		dir   domain.Direction
		price float64
		want  float64
	}{
		{domain.DirectionCall, 5001.2, 5005},
		{domain.DirectionCall, 5005, 5005},
		{domain.DirectionCall, 5005.01, 5010},
		{domain.DirectionPut, 5009.9, 5005},
		{domain.DirectionPut, 5005, 5005},
		{domain.DirectionPut, 5004.99, 5000},
	}
	for _, tc := range cases {
		score := callScore()
		score.Direction = tc.dir
		sig := Plan(score, domain.IndicatorSnapshot{CurrentPrice: tc.price}, time.Unix(0, 0))
		if sig == nil {
			t.Fatalf("%s @ %.2f: expected a plan", tc.dir, tc.price)
		}
		if sig.StrikePrice != tc.want {
			t.Errorf("%s @ %.2f: expected strike %.0f, got %.0f", tc.dir, tc.price, tc.want, sig.StrikePrice)
		}
	}
}

func TestPlanPremiumModel(t *testing.T) {
	// At-the-money (price on a strike) with quiet ADX: premium = 4.0.
	sig := Plan(callScore(), domain.IndicatorSnapshot{CurrentPrice: 5005, ADX: 10}, time.Unix(0, 0))
	if sig.EstimatedPremium != 4.0 {
		t.Fatalf("expected ATM premium 4.0, got %f", sig.EstimatedPremium)
	}

	// Far from the strike the base decays to its 1.5 floor, plus the 0.5
	// volatility bump above ADX 25.
	sig = Plan(callScore(), domain.IndicatorSnapshot{CurrentPrice: 5000.5, ADX: 30}, time.Unix(0, 0))
	if sig.StrikePrice != 5005 {
		t.Fatalf("expected strike 5005, got %f", sig.StrikePrice)
	}
	if sig.EstimatedPremium != 2.7 {
		// 4 - 0.4*4.5 = 2.2, +0.5 vol adjustment.
		t.Fatalf("expected premium 2.7, got %f", sig.EstimatedPremium)
	}
}

func TestPlanPremiumClampBounds(t *testing.T) {
	for _, adx := range []float64{0, 26, 80} {
		for _, price := range []float64{5000, 5000.01, 5002.5, 5004.99} {
			sig := Plan(callScore(), domain.IndicatorSnapshot{CurrentPrice: price, ADX: adx}, time.Unix(0, 0))
			if sig.EstimatedPremium < 1 || sig.EstimatedPremium > 6 {
				t.Fatalf("premium %.2f outside [1,6] for price %.2f adx %.1f", sig.EstimatedPremium, price, adx)
			}
		}
	}
}

func TestPlanTargetsAndStop(t *testing.T) {
	sig := Plan(callScore(), domain.IndicatorSnapshot{CurrentPrice: 5005, ADX: 10}, time.Unix(0, 0))
	if sig.ProfitTarget1 != 6.0 || sig.ProfitTarget2 != 8.0 || sig.ProfitTarget3 != 12.0 {
		t.Fatalf("unexpected targets: %.2f %.2f %.2f", sig.ProfitTarget1, sig.ProfitTarget2, sig.ProfitTarget3)
	}
	if sig.StopLoss != 2.0 {
		t.Fatalf("expected stop 2.0, got %f", sig.StopLoss)
	}
}

func TestPlanReferenceLevelsByDirection(t *testing.T) {
	snap := domain.IndicatorSnapshot{CurrentPrice: 5000, PivotR1: 5015, PivotS1: 4985}

	call := Plan(callScore(), snap, time.Unix(0, 0))
	if call.TargetSPXPrice != 5015 || call.StopSPXPrice != 4985 {
		t.Fatalf("CALL levels wrong: target %f stop %f", call.TargetSPXPrice, call.StopSPXPrice)
	}

	putScore := callScore()
	putScore.Direction = domain.DirectionPut
	put := Plan(putScore, snap, time.Unix(0, 0))
	if put.TargetSPXPrice != 4985 || put.StopSPXPrice != 5015 {
		t.Fatalf("PUT levels wrong: target %f stop %f", put.TargetSPXPrice, put.StopSPXPrice)
	}
}

func TestPlanCarriesScoreMetadata(t *testing.T) {
	now := time.Date(2026, 1, 7, 15, 0, 0, 0, time.UTC)
	sig := Plan(callScore(), domain.IndicatorSnapshot{CurrentPrice: 5000}, now)
	if sig.Reason != "MACD bullish crossover" {
		t.Fatalf("expected reason carried over, got %q", sig.Reason)
	}
	if sig.Strength != domain.StrengthMedium {
		t.Fatalf("expected strength carried over, got %s", sig.Strength)
	}
	if !sig.Timestamp.Equal(now) {
		t.Fatalf("expected timestamp %v, got %v", now, sig.Timestamp)
	}
}
