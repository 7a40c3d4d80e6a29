package tui

import (
	"context"
	"time"

	"scalp-radar/internal/domain"
)

// ScalpQuerier provides engine state to the TUI.
type ScalpQuerier interface {
	Stance() domain.Stance
	Score() domain.SignalScore
	Signal() *domain.TradeSignal
	LifecycleState() domain.LifecycleState
	Elapsed() time.Duration
	Alerts() []domain.ScalpAlert
}

// QuoteQuerier provides the current index quote to the TUI.
type QuoteQuerier interface {
	Quote(ctx context.Context) (*domain.Quote, error)
}

// AdvisorQuerier provides LLM advisor access to the TUI.
type AdvisorQuerier interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Services bundles all service dependencies injected into the TUI.
type Services struct {
	Scalp   ScalpQuerier
	Market  QuoteQuerier
	Advisor AdvisorQuerier
	Symbol  string
}
