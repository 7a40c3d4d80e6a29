// Package provider fetches quotes and candle series from the upstream market
// data API and normalizes them into domain types.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/domain"
)

const (
	requestTimeout    = 10 * time.Second
	datetimeLayout    = "2006-01-02 15:04:05"
	dailyLayout       = "2006-01-02"
	defaultOutputSize = 120
)

// timeframe names map onto the upstream interval identifiers.
var intervalNames = map[string]string{
	domain.TimeframeFast:   "1min",
	domain.TimeframeMedium: "5min",
	domain.TimeframeSlow:   "15min",
	domain.TimeframeDaily:  "1day",
}

type TwelveDataProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	tracer  trace.Tracer
}

func NewTwelveDataProvider(baseURL, apiKey string, tracer trace.Tracer) *TwelveDataProvider {
	return &TwelveDataProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
		tracer:  tracer,
	}
}

type priceResponse struct {
	Price   string `json:"price"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type timeSeriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (p *TwelveDataProvider) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "provider.get-quote")
	defer span.End()

	var payload priceResponse
	if err := p.get(ctx, "/price", url.Values{"symbol": {symbol}}, &payload); err != nil {
		return nil, err
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("upstream error: %s", payload.Message)
	}
	mark, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", payload.Price, err)
	}
	return &domain.Quote{
		Symbol:    symbol,
		Mark:      mark,
		Timestamp: time.Now().UTC(),
	}, nil
}

// GetCandles returns up to limit bars for the timeframe, oldest first.
func (p *TwelveDataProvider) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	ctx, span := p.tracer.Start(ctx, "provider.get-candles")
	defer span.End()

	interval, ok := intervalNames[timeframe]
	if !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}
	if limit <= 0 {
		limit = defaultOutputSize
	}

	var payload timeSeriesResponse
	q := url.Values{
		"symbol":     {symbol},
		"interval":   {interval},
		"outputsize": {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, "/time_series", q, &payload); err != nil {
		return nil, err
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("upstream error: %s", payload.Message)
	}

	// upstream lists newest first
	candles := make([]domain.Candle, 0, len(payload.Values))
	for i := len(payload.Values) - 1; i >= 0; i-- {
		v := payload.Values[i]
		openTime, err := parseDatetime(v.Datetime, timeframe)
		if err != nil {
			return nil, err
		}
		c := domain.Candle{Timeframe: timeframe, OpenTime: openTime}
		if c.Open, err = strconv.ParseFloat(v.Open, 64); err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		if c.High, err = strconv.ParseFloat(v.High, 64); err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		if c.Low, err = strconv.ParseFloat(v.Low, 64); err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		if c.Close, err = strconv.ParseFloat(v.Close, 64); err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		if v.Volume != "" {
			if c.Volume, err = strconv.ParseFloat(v.Volume, 64); err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func (p *TwelveDataProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	if p.apiKey != "" {
		query.Set("apikey", p.apiKey)
	}
	reqURL := p.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseDatetime(raw, timeframe string) (time.Time, error) {
	layout := datetimeLayout
	if timeframe == domain.TimeframeDaily {
		layout = dailyLayout
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", raw, err)
	}
	return t.UTC(), nil
}
