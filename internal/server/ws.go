package server

import (
	"net/http"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// wsMessage is the JSON envelope pushed to WebSocket viewers.
type wsMessage struct {
	Type      string `json:"type"`
	SpanID    string `json:"span_id,omitempty"`
	HTML      string `json:"html,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// handleStream serves the same delta stream as the SSE endpoint over a
// WebSocket, for clients behind proxies that mangle event streams. The
// socket is one-way; inbound messages are read only to detect close.
func (s *Server) handleStream(c *gin.Context) {
	containerID := s.processor.ContainerID()
	// Same restriction as the SSE endpoint: only the processor's
	// container ever receives deltas.
	if q := c.Query("container"); q != "" && q != containerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown container: " + q})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	initial, conn := s.processor.Bootstrap(containerID)
	defer s.broadcaster.Unsubscribe(conn)

	s.logger.Debug("viewer connected",
		zap.String("connection_id", conn.ID()),
		zap.String("container_id", containerID),
		zap.String("transport", "websocket"),
	)

	if err := ws.WriteJSON(wsMessage{
		Type:      "snapshot",
		HTML:      string(render.ReplaceIn(containerID, initial)),
		Timestamp: time.Now().Unix(),
	}); err != nil {
		return
	}

	// Reader goroutine: the only way to notice a client-side close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(s.heartbeatInterval())
	defer heartbeat.Stop()

	for {
		select {
		case delta, ok := <-conn.Deltas():
			if !ok {
				return
			}
			msg := wsMessage{
				Type:      string(delta.Op),
				SpanID:    delta.SpanID,
				HTML:      string(delta.Payload),
				Timestamp: time.Now().Unix(),
			}
			if err := ws.WriteJSON(msg); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := ws.WriteJSON(wsMessage{Type: "heartbeat", Timestamp: time.Now().Unix()}); err != nil {
				return
			}
		case <-closed:
			s.logger.Debug("viewer disconnected", zap.String("connection_id", conn.ID()))
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
