package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetStance godoc
// @Summary      Current market stance
// @Description  Returns the director regime, trap mode and cooldown ledger
// @Tags         scalp
// @Produce      json
// @Success      200  {object}  domain.Stance
// @Failure      503  {object}  map[string]string
// @Router       /api/stance [get]
func (h *Handler) GetStance(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-stance")
	defer span.End()

	c.JSON(http.StatusOK, h.scalp.Stance())
}

// GetScore godoc
// @Summary      Latest composite signal score
// @Tags         scalp
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/score [get]
func (h *Handler) GetScore(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-score")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{
		"score":    h.scalp.Score(),
		"snapshot": h.scalp.Snapshot(),
	})
}

// GetSignal godoc
// @Summary      Tracked trade signal
// @Description  Returns the current signal with its lifecycle state, or 404 when idle
// @Tags         scalp
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/signal [get]
func (h *Handler) GetSignal(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-signal")
	defer span.End()

	sig := h.scalp.Signal()
	if sig == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no signal is being tracked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"signal":          sig,
		"state":           h.scalp.LifecycleState(),
		"elapsed_seconds": int(h.scalp.Elapsed().Seconds()),
	})
}

// TrackSignal godoc
// @Summary      Start tracking the pending signal
// @Tags         scalp
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/signal/track [post]
func (h *Handler) TrackSignal(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.track-signal")
	defer span.End()

	if !h.scalp.StartTracking() {
		c.JSON(http.StatusConflict, gin.H{"error": "no pending signal to track"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.scalp.LifecycleState()})
}

// ClearSignal godoc
// @Summary      Abandon the tracked signal
// @Tags         scalp
// @Success      204
// @Failure      503  {object}  map[string]string
// @Router       /api/signal/clear [post]
func (h *Handler) ClearSignal(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.clear-signal")
	defer span.End()

	h.scalp.ClearSignal()
	c.Status(http.StatusNoContent)
}

// GetAlerts godoc
// @Summary      Recent alerts, newest first
// @Tags         scalp
// @Produce      json
// @Param        limit  query  int  false  "Max alerts to return"  default(50)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/alerts [get]
func (h *Handler) GetAlerts(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-alerts")
	defer span.End()

	alerts := h.scalp.Alerts()
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n < len(alerts) {
			alerts = alerts[:n]
		}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetPayout godoc
// @Summary      Payout simulation for the tracked signal
// @Tags         scalp
// @Produce      json
// @Param        budget  query  number  false  "Budget in dollars (default from config)"
// @Success      200  {object}  domain.PayoutPlan
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/payout [get]
func (h *Handler) GetPayout(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-payout")
	defer span.End()

	var budget float64
	if rawBudget := strings.TrimSpace(c.Query("budget")); rawBudget != "" {
		b, err := strconv.ParseFloat(rawBudget, 64)
		if err != nil || b <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be a positive number"})
			return
		}
		budget = b
	}

	plan, err := h.scalp.Payout(budget)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Explain godoc
// @Summary      Narrated explanation of the current state
// @Tags         scalp
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/explain [get]
func (h *Handler) Explain(c *gin.Context) {
	if h.scalp == nil || h.advisor == nil || !h.advisor.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisor unavailable"})
		return
	}
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.explain")
	defer span.End()

	answer, err := h.advisor.Explain(ctx, h.scalp.Stance(), h.scalp.Score(), h.scalp.Signal())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": answer})
}
