package mcp

import (
	"context"
	"time"

	"scalp-radar/internal/domain"
)

// ScalpReader exposes read operations over the director engine and signal
// pipeline. Payout is computational only and persists nothing.
type ScalpReader interface {
	Stance() domain.Stance
	Score() domain.SignalScore
	Snapshot() domain.IndicatorSnapshot
	Signal() *domain.TradeSignal
	LifecycleState() domain.LifecycleState
	Elapsed() time.Duration
	Alerts() []domain.ScalpAlert
	Payout(budget float64) (*domain.PayoutPlan, error)
}

// MarketReader exposes read operations for quotes and candle history.
type MarketReader interface {
	Symbol() string
	Quote(ctx context.Context) (*domain.Quote, error)
	Candles(ctx context.Context, timeframe string, limit int) ([]domain.Candle, error)
}
