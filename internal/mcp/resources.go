package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"scalp-radar/internal/domain"
)

func registerResources(server *mcp.Server, scalp ScalpReader, market MarketReader) {
	server.AddResource(&mcp.Resource{
		URI:         "market://timeframes",
		Name:        "timeframes",
		Description: "List of candle timeframes consumed by the engine",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		return jsonResource(req.Params.URI, domain.SupportedTimeframes)
	})

	server.AddResource(&mcp.Resource{
		URI:         "radar://stance",
		Name:        "stance",
		Description: "Current directional stance: regime, bias score, trap mode, alert cooldown",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		if scalp == nil {
			return nil, fmt.Errorf("scalp service unavailable")
		}
		return jsonResource(req.Params.URI, stanceGetOutput{Stance: scalp.Stance()})
	})

	server.AddResource(&mcp.Resource{
		URI:         "radar://score",
		Name:        "score",
		Description: "Latest deterministic indicator score and snapshot",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		if scalp == nil {
			return nil, fmt.Errorf("scalp service unavailable")
		}
		return jsonResource(req.Params.URI, scoreGetOutput{Score: scalp.Score(), Snapshot: scalp.Snapshot()})
	})

	server.AddResource(&mcp.Resource{
		URI:         "radar://signal",
		Name:        "signal",
		Description: "Active trade recommendation and lifecycle state",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		if scalp == nil {
			return nil, fmt.Errorf("scalp service unavailable")
		}
		out := signalGetOutput{Signal: scalp.Signal(), State: scalp.LifecycleState()}
		if out.Signal != nil {
			out.ElapsedSeconds = scalp.Elapsed().Seconds()
		}
		return jsonResource(req.Params.URI, out)
	})

	server.AddResource(&mcp.Resource{
		URI:         "market://quote",
		Name:        "quote",
		Description: "Current mark price of the tracked index",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("market service unavailable")
		}
		quote, err := market.Quote(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, quoteGetOutput{Quote: quote})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "alerts://recent{?limit}",
		Name:        "alerts-recent",
		Description: "Recent director alerts, newest first; optional limit query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		_ = ctx
		if scalp == nil {
			return nil, fmt.Errorf("scalp service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "alerts" || parsed.Host != "recent" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		limit := defaultAlertLimit
		if rawLimit := strings.TrimSpace(parsed.Query().Get("limit")); rawLimit != "" {
			n, err := strconv.Atoi(rawLimit)
			if err != nil {
				return nil, fmt.Errorf("invalid limit: %s", rawLimit)
			}
			limit = normalizeAlertLimit(n)
		}

		alerts := scalp.Alerts()
		if len(alerts) > limit {
			alerts = alerts[:limit]
		}
		return jsonResource(req.Params.URI, alertsListOutput{Alerts: alerts})
	})

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "candles://{timeframe}{?limit}",
		Name:        "candles-by-timeframe",
		Description: "OHLCV candles for a timeframe; optional limit query param",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if market == nil {
			return nil, fmt.Errorf("market service unavailable")
		}

		parsed, err := url.Parse(req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		if parsed.Scheme != "candles" {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}

		timeframe, err := normalizeTimeframe(parsed.Host)
		if err != nil {
			return nil, err
		}

		limit := defaultCandleLimit
		if rawLimit := strings.TrimSpace(parsed.Query().Get("limit")); rawLimit != "" {
			n, err := strconv.Atoi(rawLimit)
			if err != nil {
				return nil, fmt.Errorf("invalid limit: %s", rawLimit)
			}
			limit = normalizeCandleLimit(n)
		}

		candles, err := market.Candles(ctx, timeframe, limit)
		if err != nil {
			return nil, err
		}
		return jsonResource(req.Params.URI, candlesListOutput{Symbol: market.Symbol(), Timeframe: timeframe, Candles: candles})
	})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		}},
	}, nil
}
