package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"scalp-radar/internal/domain"
)

const (
	quoteTTL  = 10 * time.Second
	candleTTL = 30 * time.Second
)

// MarketCache keeps the hot quote and the latest candle series per timeframe
// so handler reads do not touch the upstream provider. A nil client disables
// caching; every method becomes a no-op miss.
type MarketCache struct {
	client *redis.Client
}

func NewMarketCache(client *redis.Client) *MarketCache {
	return &MarketCache{client: client}
}

func (c *MarketCache) SetQuote(ctx context.Context, q domain.Quote) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	return c.client.Set(ctx, quoteKey(q.Symbol), payload, quoteTTL).Err()
}

// GetQuote returns nil without error on a cache miss.
func (c *MarketCache) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, quoteKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	var q domain.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	return &q, nil
}

func (c *MarketCache) SetCandles(ctx context.Context, symbol, timeframe string, candles []domain.Candle) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("marshal candles: %w", err)
	}
	return c.client.Set(ctx, candleKey(symbol, timeframe), payload, candleTTL).Err()
}

// GetCandles returns nil without error on a cache miss.
func (c *MarketCache) GetCandles(ctx context.Context, symbol, timeframe string) ([]domain.Candle, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, candleKey(symbol, timeframe)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}
	var candles []domain.Candle
	if err := json.Unmarshal(raw, &candles); err != nil {
		return nil, fmt.Errorf("unmarshal candles: %w", err)
	}
	return candles, nil
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

func candleKey(symbol, timeframe string) string {
	return fmt.Sprintf("candles:%s:%s", symbol, timeframe)
}
