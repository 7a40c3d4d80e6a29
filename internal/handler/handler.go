package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"scalp-radar/internal/domain"
)

// ScalpReader is the slice of the scalp service the HTTP surface needs.
type ScalpReader interface {
	Snapshot() domain.IndicatorSnapshot
	Score() domain.SignalScore
	Stance() domain.Stance
	Signal() *domain.TradeSignal
	LifecycleState() domain.LifecycleState
	Elapsed() time.Duration
	StartTracking() bool
	ClearSignal()
	Alerts() []domain.ScalpAlert
	Payout(budget float64) (*domain.PayoutPlan, error)
}

type MarketReader interface {
	Symbol() string
	Quote(ctx context.Context) (*domain.Quote, error)
	Candles(ctx context.Context, timeframe string, limit int) ([]domain.Candle, error)
}

type Advisor interface {
	Enabled() bool
	Explain(ctx context.Context, stance domain.Stance, score domain.SignalScore, sig *domain.TradeSignal) (string, error)
}

type Handler struct {
	tracer  trace.Tracer
	scalp   ScalpReader
	market  MarketReader
	advisor Advisor
}

func New(tracer trace.Tracer, scalp ScalpReader, market MarketReader, advisor Advisor) *Handler {
	return &Handler{
		tracer:  tracer,
		scalp:   scalp,
		market:  market,
		advisor: advisor,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/stance", h.GetStance)
	r.GET("/api/score", h.GetScore)
	r.GET("/api/signal", h.GetSignal)
	r.POST("/api/signal/track", h.TrackSignal)
	r.POST("/api/signal/clear", h.ClearSignal)
	r.GET("/api/alerts", h.GetAlerts)
	r.GET("/api/quote", h.GetQuote)
	r.GET("/api/candles/:timeframe", h.GetCandles)
	r.GET("/api/payout", h.GetPayout)
	r.GET("/api/explain", h.Explain)
	r.GET("/api/stream", h.Stream)
}

// Health godoc
// @Summary      Liveness check
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
