package service

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/domain"
)

type MarketProvider interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error)
}

type CandleArchive interface {
	UpsertCandles(ctx context.Context, symbol string, candles []domain.Candle) error
}

type MarketCache interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
	SetQuote(ctx context.Context, q domain.Quote) error
	GetCandles(ctx context.Context, symbol, timeframe string) ([]domain.Candle, error)
	SetCandles(ctx context.Context, symbol, timeframe string, candles []domain.Candle) error
}

// MarketService serves quotes and candle series cache-first, falling back to
// the upstream provider. Fetched candles are archived best-effort; an archive
// failure never fails the read path.
type MarketService struct {
	tracer   trace.Tracer
	provider MarketProvider
	archive  CandleArchive
	cache    MarketCache
	symbol   string
}

func NewMarketService(tracer trace.Tracer, provider MarketProvider, archive CandleArchive, cache MarketCache, symbol string) *MarketService {
	return &MarketService{
		tracer:   tracer,
		provider: provider,
		archive:  archive,
		cache:    cache,
		symbol:   symbol,
	}
}

func (s *MarketService) Symbol() string { return s.symbol }

func (s *MarketService) Quote(ctx context.Context) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.quote")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.GetQuote(ctx, s.symbol); err != nil {
			log.Printf("quote cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	quote, err := s.provider.GetQuote(ctx, s.symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote for %s: %w", s.symbol, err)
	}
	if s.cache != nil {
		if err := s.cache.SetQuote(ctx, *quote); err != nil {
			log.Printf("quote cache write failed: %v", err)
		}
	}
	return quote, nil
}

func (s *MarketService) Candles(ctx context.Context, timeframe string, limit int) ([]domain.Candle, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.candles")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.GetCandles(ctx, s.symbol, timeframe); err != nil {
			log.Printf("candle cache read failed: %v", err)
		} else if len(cached) >= limit && limit > 0 {
			return cached[len(cached)-limit:], nil
		}
	}

	candles, err := s.provider.GetCandles(ctx, s.symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s candles for %s: %w", timeframe, s.symbol, err)
	}

	if s.cache != nil {
		if err := s.cache.SetCandles(ctx, s.symbol, timeframe, candles); err != nil {
			log.Printf("candle cache write failed: %v", err)
		}
	}
	if s.archive != nil {
		if err := s.archive.UpsertCandles(ctx, s.symbol, candles); err != nil {
			log.Printf("candle archive write failed: %v", err)
		}
	}
	return candles, nil
}
