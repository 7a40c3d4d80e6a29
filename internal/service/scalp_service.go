package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/alert"
	"scalp-radar/internal/director"
	"scalp-radar/internal/domain"
	"scalp-radar/internal/indicator"
	"scalp-radar/internal/lifecycle"
	"scalp-radar/internal/signal"
)

const (
	fastLookback   = 120
	mediumLookback = 60
	slowLookback   = 80
	dailyLookback  = 2
)

type MarketData interface {
	Candles(ctx context.Context, timeframe string, limit int) ([]domain.Candle, error)
}

type AlertJournal interface {
	InsertAlert(ctx context.Context, symbol string, alert domain.ScalpAlert) error
}

// ScalpService runs one full evaluation pass per tick: fetch the four candle
// series, score the snapshot, feed the trade tracker and the director engine,
// and fan emitted alerts out through the emitter. Overlapping ticks are
// dropped rather than queued; the next poll carries fresher data anyway.
type ScalpService struct {
	tracer  trace.Tracer
	market  MarketData
	tracker *lifecycle.Tracker
	engine  *director.Engine
	emitter *alert.Emitter
	journal AlertJournal
	symbol  string
	budget  float64
	now     func() time.Time

	busy sync.Mutex

	mu        sync.RWMutex
	snapshot  domain.IndicatorSnapshot
	score     domain.SignalScore
	updatedAt time.Time
}

func NewScalpService(
	tracer trace.Tracer,
	market MarketData,
	tracker *lifecycle.Tracker,
	engine *director.Engine,
	emitter *alert.Emitter,
	journal AlertJournal,
	symbol string,
	budget float64,
) *ScalpService {
	return &ScalpService{
		tracer:  tracer,
		market:  market,
		tracker: tracker,
		engine:  engine,
		emitter: emitter,
		journal: journal,
		symbol:  symbol,
		budget:  budget,
		now:     time.Now,
	}
}

// Tick runs a single evaluation pass. Returns nil immediately when a previous
// pass is still in flight.
func (s *ScalpService) Tick(ctx context.Context) error {
	if !s.busy.TryLock() {
		return nil
	}
	defer s.busy.Unlock()

	ctx, span := s.tracer.Start(ctx, "scalp-service.tick")
	defer span.End()

	fast, err := s.market.Candles(ctx, domain.TimeframeFast, fastLookback)
	if err != nil {
		return fmt.Errorf("fast candles: %w", err)
	}
	medium, err := s.market.Candles(ctx, domain.TimeframeMedium, mediumLookback)
	if err != nil {
		return fmt.Errorf("medium candles: %w", err)
	}
	slow, err := s.market.Candles(ctx, domain.TimeframeSlow, slowLookback)
	if err != nil {
		return fmt.Errorf("slow candles: %w", err)
	}
	daily, err := s.market.Candles(ctx, domain.TimeframeDaily, dailyLookback)
	if err != nil {
		return fmt.Errorf("daily candles: %w", err)
	}

	snap := indicator.BuildSnapshot(fast, priorSession(daily))
	score := signal.Score(snap)

	if plan := signal.Plan(score, snap, s.now()); plan != nil {
		s.tracker.Offer(plan)
	}
	s.tracker.Tick(snap.CurrentPrice)

	if a := s.engine.Tick(fast, medium, slow); a != nil {
		s.emitter.Emit(*a)
		if s.journal != nil {
			if err := s.journal.InsertAlert(ctx, s.symbol, *a); err != nil {
				log.Printf("alert journal write failed: %v", err)
			}
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	s.score = score
	s.updatedAt = s.now()
	s.mu.Unlock()
	return nil
}

// priorSession picks the last fully closed daily bar. With two bars the
// trailing one is the in-progress session, so pivots come from the one before.
func priorSession(daily []domain.Candle) *domain.Candle {
	switch len(daily) {
	case 0:
		return nil
	case 1:
		return &daily[0]
	default:
		return &daily[len(daily)-2]
	}
}

func (s *ScalpService) Snapshot() domain.IndicatorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *ScalpService) Score() domain.SignalScore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

func (s *ScalpService) Stance() domain.Stance {
	s.mu.RLock()
	updatedAt := s.updatedAt
	s.mu.RUnlock()
	return domain.Stance{
		Director:  s.engine.Director(),
		Trap:      s.engine.Trap(),
		Cooldown:  s.engine.Cooldown(),
		UpdatedAt: updatedAt,
	}
}

func (s *ScalpService) Signal() *domain.TradeSignal {
	return s.tracker.Current()
}

func (s *ScalpService) LifecycleState() domain.LifecycleState {
	return s.tracker.State()
}

func (s *ScalpService) Elapsed() time.Duration {
	return s.tracker.Elapsed()
}

// StartTracking moves the pending signal to active.
func (s *ScalpService) StartTracking() bool {
	return s.tracker.Start()
}

// ClearSignal abandons the tracked signal.
func (s *ScalpService) ClearSignal() {
	s.tracker.Clear()
}

func (s *ScalpService) Alerts() []domain.ScalpAlert {
	return s.emitter.History().List()
}

// Payout simulates contract sizing and the payout table for the tracked
// signal. A non-positive budget falls back to the configured default.
func (s *ScalpService) Payout(budget float64) (*domain.PayoutPlan, error) {
	sig := s.tracker.Current()
	if sig == nil {
		return nil, fmt.Errorf("no signal is being tracked")
	}
	if budget <= 0 {
		budget = s.budget
	}
	plan := signal.SimulatePayout(budget, *sig)
	return &plan, nil
}
