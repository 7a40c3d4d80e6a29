package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/domain"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type stubProvider struct {
	quote       *domain.Quote
	candles     map[string][]domain.Candle
	err         error
	quoteCalls  int
	candleCalls int
}

func (s *stubProvider) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	s.quoteCalls++
	return s.quote, s.err
}

func (s *stubProvider) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	s.candleCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.candles[timeframe], nil
}

type stubArchive struct {
	upserts int
}

func (s *stubArchive) UpsertCandles(ctx context.Context, symbol string, candles []domain.Candle) error {
	s.upserts++
	return nil
}

type stubMarketCache struct {
	quote   *domain.Quote
	candles map[string][]domain.Candle
	sets    int
}

func (s *stubMarketCache) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return s.quote, nil
}

func (s *stubMarketCache) SetQuote(ctx context.Context, q domain.Quote) error {
	s.quote = &q
	s.sets++
	return nil
}

func (s *stubMarketCache) GetCandles(ctx context.Context, symbol, timeframe string) ([]domain.Candle, error) {
	return s.candles[timeframe], nil
}

func (s *stubMarketCache) SetCandles(ctx context.Context, symbol, timeframe string, candles []domain.Candle) error {
	if s.candles == nil {
		s.candles = map[string][]domain.Candle{}
	}
	s.candles[timeframe] = candles
	s.sets++
	return nil
}

func TestQuoteCacheHitSkipsProvider(t *testing.T) {
	cached := &domain.Quote{Symbol: "SPX", Mark: 5900}
	provider := &stubProvider{}
	svc := NewMarketService(noopTracer(), provider, nil, &stubMarketCache{quote: cached}, "SPX")

	q, err := svc.Quote(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Mark != 5900 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if provider.quoteCalls != 0 {
		t.Fatal("cache hit should not touch the provider")
	}
}

func TestQuoteMissFetchesAndCaches(t *testing.T) {
	provider := &stubProvider{quote: &domain.Quote{Symbol: "SPX", Mark: 5918.25, Timestamp: time.Now()}}
	cache := &stubMarketCache{}
	svc := NewMarketService(noopTracer(), provider, nil, cache, "SPX")

	q, err := svc.Quote(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Mark != 5918.25 || provider.quoteCalls != 1 {
		t.Fatalf("unexpected quote: %+v (calls %d)", q, provider.quoteCalls)
	}
	if cache.quote == nil {
		t.Fatal("fetched quote should be cached")
	}
}

func TestCandlesFetchArchivesAndCaches(t *testing.T) {
	series := []domain.Candle{
		{Timeframe: domain.TimeframeFast, Close: 5900},
		{Timeframe: domain.TimeframeFast, Close: 5905},
	}
	provider := &stubProvider{candles: map[string][]domain.Candle{domain.TimeframeFast: series}}
	archive := &stubArchive{}
	cache := &stubMarketCache{}
	svc := NewMarketService(noopTracer(), provider, archive, cache, "SPX")

	candles, err := svc.Candles(context.Background(), domain.TimeframeFast, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if archive.upserts != 1 {
		t.Fatalf("expected 1 archive write, got %d", archive.upserts)
	}
	if len(cache.candles[domain.TimeframeFast]) != 2 {
		t.Fatal("fetched candles should be cached")
	}
}

func TestCandlesCacheHitReturnsTail(t *testing.T) {
	cached := []domain.Candle{{Close: 1}, {Close: 2}, {Close: 3}}
	provider := &stubProvider{}
	svc := NewMarketService(noopTracer(), provider, nil, &stubMarketCache{
		candles: map[string][]domain.Candle{domain.TimeframeFast: cached},
	}, "SPX")

	candles, err := svc.Candles(context.Background(), domain.TimeframeFast, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 || candles[0].Close != 2 {
		t.Fatalf("expected the trailing 2 bars, got %+v", candles)
	}
	if provider.candleCalls != 0 {
		t.Fatal("cache hit should not touch the provider")
	}
}

func TestCandlesProviderErrorPropagates(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("rate limited")}
	svc := NewMarketService(noopTracer(), provider, nil, nil, "SPX")

	if _, err := svc.Candles(context.Background(), domain.TimeframeFast, 10); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
