package mcp

import (
	"fmt"
	"strings"

	"scalp-radar/internal/domain"
)

const (
	defaultCandleLimit = 120
	maxCandleLimit     = 500
	defaultAlertLimit  = 20
	maxAlertLimit      = 50
)

type stanceGetInput struct{}

type stanceGetOutput struct {
	Stance domain.Stance `json:"stance"`
}

type scoreGetInput struct{}

type scoreGetOutput struct {
	Score    domain.SignalScore       `json:"score"`
	Snapshot domain.IndicatorSnapshot `json:"snapshot"`
}

type signalGetInput struct{}

type signalGetOutput struct {
	Signal         *domain.TradeSignal   `json:"signal"`
	State          domain.LifecycleState `json:"state"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`
}

type alertsListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of recent alerts to return, max 50"`
}

type alertsListOutput struct {
	Alerts []domain.ScalpAlert `json:"alerts"`
}

type payoutSimulateInput struct {
	Budget float64 `json:"budget,omitempty" jsonschema:"dollar budget for contracts; omit for the configured default"`
}

type payoutSimulateOutput struct {
	Plan *domain.PayoutPlan `json:"plan"`
}

type quoteGetInput struct{}

type quoteGetOutput struct {
	Quote *domain.Quote `json:"quote"`
}

type candlesListInput struct {
	Timeframe string `json:"timeframe" jsonschema:"candle timeframe: 1m, 5m, 15m, 1d"`
	Limit     int    `json:"limit,omitempty" jsonschema:"number of candles to return, max 500"`
}

type candlesListOutput struct {
	Symbol    string          `json:"symbol"`
	Timeframe string          `json:"timeframe"`
	Candles   []domain.Candle `json:"candles"`
}

func normalizeTimeframe(timeframe string) (string, error) {
	timeframe = strings.ToLower(strings.TrimSpace(timeframe))
	if timeframe == "" {
		return "", fmt.Errorf("timeframe is required")
	}
	for _, supported := range domain.SupportedTimeframes {
		if timeframe == supported {
			return timeframe, nil
		}
	}
	return "", fmt.Errorf("unsupported timeframe: %s", timeframe)
}

func normalizeCandleLimit(limit int) int {
	if limit <= 0 {
		return defaultCandleLimit
	}
	if limit > maxCandleLimit {
		return maxCandleLimit
	}
	return limit
}

func normalizeAlertLimit(limit int) int {
	if limit <= 0 {
		return defaultAlertLimit
	}
	if limit > maxAlertLimit {
		return maxAlertLimit
	}
	return limit
}

func normalizeBudget(budget float64) (float64, error) {
	if budget < 0 {
		return 0, fmt.Errorf("budget must not be negative")
	}
	return budget, nil
}
