package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/domain"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *TwelveDataProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTwelveDataProvider(srv.URL, "test-key", trace.NewNoopTracerProvider().Tracer("test"))
}

func TestGetQuote(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "SPX" {
			t.Errorf("symbol = %s, want SPX", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %s, want test-key", got)
		}
		w.Write([]byte(`{"price":"5918.25"}`))
	})

	q, err := p.GetQuote(context.Background(), "SPX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "SPX" || q.Mark != 5918.25 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestGetQuoteUpstreamError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"symbol not found"}`))
	})
	if _, err := p.GetQuote(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected an error for upstream error payload")
	}
}

func TestGetCandlesReversesToAscending(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1min" {
			t.Errorf("interval = %s, want 1min", got)
		}
		w.Write([]byte(`{"status":"ok","values":[
			{"datetime":"2026-03-02 15:31:00","open":"5910","high":"5915","low":"5908","close":"5912","volume":"120"},
			{"datetime":"2026-03-02 15:30:00","open":"5905","high":"5911","low":"5903","close":"5910","volume":"90"}
		]}`))
	})

	candles, err := p.GetCandles(context.Background(), "SPX", domain.TimeframeFast, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if !candles[0].OpenTime.Before(candles[1].OpenTime) {
		t.Fatalf("candles should be oldest first: %v, %v", candles[0].OpenTime, candles[1].OpenTime)
	}
	if candles[1].Close != 5912 || candles[1].Volume != 120 {
		t.Fatalf("unexpected trailing candle: %+v", candles[1])
	}
}

func TestGetCandlesDailyLayout(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1day" {
			t.Errorf("interval = %s, want 1day", got)
		}
		w.Write([]byte(`{"status":"ok","values":[
			{"datetime":"2026-02-27","open":"5880","high":"5920","low":"5870","close":"5905"}
		]}`))
	})

	candles, err := p.GetCandles(context.Background(), "SPX", domain.TimeframeDaily, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 1 || candles[0].High != 5920 {
		t.Fatalf("unexpected candles: %+v", candles)
	}
}

func TestGetCandlesRejectsUnknownTimeframe(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := p.GetCandles(context.Background(), "SPX", "3h", 10); err == nil {
		t.Fatal("expected an error for unsupported timeframe")
	}
}

func TestGetQuoteBadStatusCode(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	if _, err := p.GetQuote(context.Background(), "SPX"); err == nil {
		t.Fatal("expected an error for non-200 response")
	}
}
