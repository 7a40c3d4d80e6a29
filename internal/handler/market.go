package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"scalp-radar/internal/domain"
)

var knownTimeframes = map[string]bool{
	domain.TimeframeFast:   true,
	domain.TimeframeMedium: true,
	domain.TimeframeSlow:   true,
	domain.TimeframeDaily:  true,
}

// GetQuote godoc
// @Summary      Current instrument quote
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.Quote
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/quote [get]
func (h *Handler) GetQuote(c *gin.Context) {
	if h.market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market service unavailable"})
		return
	}
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()

	quote, err := h.market.Quote(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetCandles godoc
// @Summary      Candle series for a timeframe
// @Tags         market
// @Produce      json
// @Param        timeframe  path   string  true   "Timeframe (1m, 5m, 15m, 1d)"
// @Param        limit      query  int     false  "Number of bars"  default(120)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/candles/{timeframe} [get]
func (h *Handler) GetCandles(c *gin.Context) {
	if h.market == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market service unavailable"})
		return
	}
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-candles")
	defer span.End()

	timeframe := strings.TrimSpace(c.Param("timeframe"))
	if !knownTimeframes[timeframe] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported timeframe: " + timeframe})
		return
	}

	limit := 120
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	candles, err := h.market.Candles(ctx, timeframe, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":    h.market.Symbol(),
		"timeframe": timeframe,
		"candles":   candles,
	})
}
