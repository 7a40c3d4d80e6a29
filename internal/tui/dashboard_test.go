package tui

import (
	"strings"
	"testing"
	"time"

	"scalp-radar/internal/domain"
)

func TestDashboardWaitingState(t *testing.T) {
	m := NewDashboardModel(testServices())
	m.SetSize(120, 40)

	view := m.View()
	if !strings.Contains(view, "Waiting for engine state") {
		t.Fatalf("expected waiting placeholder, got:\n%s", view)
	}
}

func TestDashboardRendersState(t *testing.T) {
	m := NewDashboardModel(testServices())
	m.SetSize(120, 40)

	m, _ = m.Update(radarMsg{
		stance: domain.Stance{
			Director:  domain.DirectorState{Regime: domain.RegimeTrendUp, BiasScore: 3.2},
			Trap:      domain.TrapModeResult{Active: true, Type: domain.TrapBull, BarsRemaining: 2},
			UpdatedAt: time.Date(2026, 3, 2, 15, 5, 0, 0, time.UTC),
		},
		score: domain.SignalScore{
			Bullish:   13.5,
			Bearish:   5.4,
			Direction: domain.DirectionCall,
			Strength:  domain.StrengthHigh,
		},
		signal: &domain.TradeSignal{
			Type:             domain.DirectionCall,
			StrikePrice:      5960,
			EstimatedPremium: 4.3,
			Strength:         domain.StrengthHigh,
		},
		state:   domain.LifecyclePending,
		elapsed: 45 * time.Second,
		alerts: []domain.ScalpAlert{{
			Direction:   domain.DirectionCall,
			Explanation: "uptrend continuation",
			Confidence:  0.81,
			ShouldPush:  true,
			Timestamp:   time.Date(2026, 3, 2, 15, 5, 0, 0, time.UTC),
		}},
	})
	m, _ = m.Update(quoteMsg(&domain.Quote{Symbol: "SPX", Mark: 5960.5, Timestamp: time.Unix(0, 0).UTC()}))

	if !m.HasState() {
		t.Fatal("expected state after radar message")
	}
	view := m.View()
	for _, want := range []string{"TREND_UP", "5960", "Trap: BULL_TRAP", "uptrend continuation", "PENDING"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in dashboard view:\n%s", want, view)
		}
	}
}

func TestDashboardQuoteError(t *testing.T) {
	m := NewDashboardModel(testServices())
	m.SetSize(120, 40)

	m, _ = m.Update(radarMsg{
		stance: domain.Stance{Director: domain.DirectorState{Regime: domain.RegimeChop}},
		state:  domain.LifecycleNone,
	})
	m, _ = m.Update(quoteErrMsg{err: errStub("feed down")})

	view := m.View()
	if !strings.Contains(view, "feed down") {
		t.Fatalf("expected quote error in view:\n%s", view)
	}
}

type errStub string

func (e errStub) Error() string { return string(e) }
