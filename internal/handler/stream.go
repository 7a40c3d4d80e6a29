package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"scalp-radar/internal/domain"
)

const (
	streamInterval = 2 * time.Second
	writeTimeout   = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type streamFrame struct {
	Stance domain.Stance         `json:"stance"`
	Score  domain.SignalScore    `json:"score"`
	Signal *domain.TradeSignal   `json:"signal,omitempty"`
	State  domain.LifecycleState `json:"state"`
}

// Stream godoc
// @Summary      Push stance/score/signal frames over a websocket
// @Tags         scalp
// @Success      101
// @Failure      503  {object}  map[string]string
// @Router       /api/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	if h.scalp == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scalp service unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// drain the reader so close frames are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	if err := h.writeFrame(conn); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if err := h.writeFrame(conn); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeFrame(conn *websocket.Conn) error {
	frame := streamFrame{
		Stance: h.scalp.Stance(),
		Score:  h.scalp.Score(),
		Signal: h.scalp.Signal(),
		State:  h.scalp.LifecycleState(),
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(frame)
}
