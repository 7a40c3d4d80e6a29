package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, scalp ScalpReader, market MarketReader) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stance_get",
		Description: "Get the current multi-timeframe directional stance: regime, bias score, trap mode, and alert cooldown",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ stanceGetInput) (*mcp.CallToolResult, stanceGetOutput, error) {
		if scalp == nil {
			return nil, stanceGetOutput{}, fmt.Errorf("scalp service unavailable")
		}
		return nil, stanceGetOutput{Stance: scalp.Stance()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "score_get",
		Description: "Get the latest deterministic indicator score and the snapshot it was computed from",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ scoreGetInput) (*mcp.CallToolResult, scoreGetOutput, error) {
		if scalp == nil {
			return nil, scoreGetOutput{}, fmt.Errorf("scalp service unavailable")
		}
		return nil, scoreGetOutput{Score: scalp.Score(), Snapshot: scalp.Snapshot()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "signal_get",
		Description: "Get the active trade recommendation and its lifecycle state, if one is being tracked",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ signalGetInput) (*mcp.CallToolResult, signalGetOutput, error) {
		if scalp == nil {
			return nil, signalGetOutput{}, fmt.Errorf("scalp service unavailable")
		}
		out := signalGetOutput{
			Signal: scalp.Signal(),
			State:  scalp.LifecycleState(),
		}
		if out.Signal != nil {
			out.ElapsedSeconds = scalp.Elapsed().Seconds()
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "alerts_list",
		Description: "Get recent director alerts, newest first",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in alertsListInput) (*mcp.CallToolResult, alertsListOutput, error) {
		if scalp == nil {
			return nil, alertsListOutput{}, fmt.Errorf("scalp service unavailable")
		}
		alerts := scalp.Alerts()
		limit := normalizeAlertLimit(in.Limit)
		if len(alerts) > limit {
			alerts = alerts[:limit]
		}
		return nil, alertsListOutput{Alerts: alerts}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "payout_simulate",
		Description: "Simulate option contract sizing and per-target payouts for a dollar budget against the active signal",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in payoutSimulateInput) (*mcp.CallToolResult, payoutSimulateOutput, error) {
		if scalp == nil {
			return nil, payoutSimulateOutput{}, fmt.Errorf("scalp service unavailable")
		}
		budget, err := normalizeBudget(in.Budget)
		if err != nil {
			return nil, payoutSimulateOutput{}, err
		}
		plan, err := scalp.Payout(budget)
		if err != nil {
			return nil, payoutSimulateOutput{}, err
		}
		return nil, payoutSimulateOutput{Plan: plan}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "quote_get",
		Description: "Get the current mark price of the tracked index",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ quoteGetInput) (*mcp.CallToolResult, quoteGetOutput, error) {
		if market == nil {
			return nil, quoteGetOutput{}, fmt.Errorf("market service unavailable")
		}
		quote, err := market.Quote(ctx)
		if err != nil {
			return nil, quoteGetOutput{}, err
		}
		return nil, quoteGetOutput{Quote: quote}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "candles_list",
		Description: "Get OHLCV candles by timeframe and limit",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in candlesListInput) (*mcp.CallToolResult, candlesListOutput, error) {
		if market == nil {
			return nil, candlesListOutput{}, fmt.Errorf("market service unavailable")
		}
		timeframe, err := normalizeTimeframe(in.Timeframe)
		if err != nil {
			return nil, candlesListOutput{}, err
		}
		limit := normalizeCandleLimit(in.Limit)

		candles, err := market.Candles(ctx, timeframe, limit)
		if err != nil {
			return nil, candlesListOutput{}, err
		}
		return nil, candlesListOutput{Symbol: market.Symbol(), Timeframe: timeframe, Candles: candles}, nil
	})
}
