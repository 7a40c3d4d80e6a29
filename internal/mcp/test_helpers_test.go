package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"scalp-radar/internal/domain"
)

type stubScalpService struct {
	stance   domain.Stance
	score    domain.SignalScore
	snapshot domain.IndicatorSnapshot
	signal   *domain.TradeSignal
	state    domain.LifecycleState
	elapsed  time.Duration
	alerts   []domain.ScalpAlert
	plan     *domain.PayoutPlan

	lastPayoutBudget float64
}

func (s *stubScalpService) Stance() domain.Stance { return s.stance }
func (s *stubScalpService) Score() domain.SignalScore { return s.score }
func (s *stubScalpService) Snapshot() domain.IndicatorSnapshot { return s.snapshot }
func (s *stubScalpService) Signal() *domain.TradeSignal { return s.signal }
func (s *stubScalpService) LifecycleState() domain.LifecycleState { return s.state }
func (s *stubScalpService) Elapsed() time.Duration { return s.elapsed }

func (s *stubScalpService) Alerts() []domain.ScalpAlert {
	return append([]domain.ScalpAlert(nil), s.alerts...)
}

func (s *stubScalpService) Payout(budget float64) (*domain.PayoutPlan, error) {
	s.lastPayoutBudget = budget
	if s.plan == nil {
		return nil, fmt.Errorf("no tracked signal")
	}
	return s.plan, nil
}

type stubMarketService struct {
	symbol  string
	quote   *domain.Quote
	candles map[string][]domain.Candle

	lastCandleLimit int
}

func (s *stubMarketService) Symbol() string { return s.symbol }

func (s *stubMarketService) Quote(ctx context.Context) (*domain.Quote, error) {
	if s.quote == nil {
		return nil, fmt.Errorf("no quote")
	}
	q := *s.quote
	return &q, nil
}

func (s *stubMarketService) Candles(ctx context.Context, timeframe string, limit int) ([]domain.Candle, error) {
	s.lastCandleLimit = limit
	candles := s.candles[timeframe]
	if len(candles) > limit {
		candles = candles[:limit]
	}
	return append([]domain.Candle(nil), candles...), nil
}

func testServer() (*sdkmcp.Server, *stubScalpService, *stubMarketService) {
	scalp := &stubScalpService{
		stance: domain.Stance{
			Director:  domain.DirectorState{Regime: domain.RegimeTrendUp, BiasScore: 3.1},
			UpdatedAt: time.Unix(0, 0).UTC(),
		},
		score: domain.SignalScore{
			Bullish:   13.5,
			Bearish:   5.4,
			Direction: domain.DirectionCall,
			Strength:  domain.StrengthHigh,
		},
		signal: &domain.TradeSignal{
			Type:        domain.DirectionCall,
			StrikePrice: 5960,
			Strength:    domain.StrengthHigh,
			Timestamp:   time.Unix(0, 0).UTC(),
		},
		state:   domain.LifecyclePending,
		elapsed: 30 * time.Second,
		alerts: []domain.ScalpAlert{{
			Direction:  domain.DirectionCall,
			Confidence: 0.81,
			ShouldPush: true,
			Timestamp:  time.Unix(0, 0).UTC(),
		}},
		plan: &domain.PayoutPlan{Budget: 1000, Premium: 4.3, Contracts: 2, CostBasis: 860},
	}
	market := &stubMarketService{
		symbol: "SPX",
		quote:  &domain.Quote{Symbol: "SPX", Mark: 5960.5, Timestamp: time.Unix(0, 0).UTC()},
		candles: map[string][]domain.Candle{
			"1m": {{Timeframe: "1m", Open: 1, High: 2, Low: 1, Close: 2, Volume: 3, OpenTime: time.Unix(0, 0).UTC()}},
		},
	}

	srv := NewServer(nil, scalp, market, ServerConfig{RequestTimeout: time.Second})
	return srv, scalp, market
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

type authRoundTripper struct {
	token string
	base  http.RoundTripper
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
