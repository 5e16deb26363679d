package server

import (
	"io"
	"net/http"
	"time"

	"github.com/Novia-RDI-Seafaring/ft-otel/internal/render"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TelemetryEvent is the SSE event name carrying render deltas. The
// client attaches each payload via its out-of-band swap targets.
const TelemetryEvent = "TelemetryEvent"

// handleTelemetry serves the one-way delta stream for a viewer. The
// bootstrap flow runs on connect: the full current tree is sent as the
// first event, replacing the container's contents, then deltas follow
// until the client goes away.
func (s *Server) handleTelemetry(c *gin.Context) {
	containerID := s.processor.ContainerID()
	// Deltas are only ever published to the processor's container, so a
	// subscription to any other id would go silent after the snapshot.
	if q := c.Query("container"); q != "" && q != containerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown container: " + q})
		return
	}

	initial, conn := s.processor.Bootstrap(containerID)
	defer s.broadcaster.Unsubscribe(conn)

	s.logger.Debug("viewer connected",
		zap.String("connection_id", conn.ID()),
		zap.String("container_id", containerID),
		zap.String("transport", "sse"),
	)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent(TelemetryEvent, string(render.ReplaceIn(containerID, initial)))
	c.Writer.Flush()

	heartbeat := time.NewTicker(s.heartbeatInterval())
	defer heartbeat.Stop()
	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case delta, ok := <-conn.Deltas():
			if !ok {
				return false
			}
			c.SSEvent(TelemetryEvent, string(delta.Payload))
			return true
		case <-heartbeat.C:
			// Keeps idle connections from being reaped by proxies.
			c.SSEvent("heartbeat", "")
			return true
		case <-clientGone:
			return false
		}
	})

	s.logger.Debug("viewer disconnected", zap.String("connection_id", conn.ID()))
}
