package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"livefeed/internal/http/dto"
	"livefeed/internal/http/middleware"
	"livefeed/internal/http/resp"
	"livefeed/internal/sse"
)

// Stream pushes refresh signals to the client. The client re-fetches the
// notification list on each one.
func (h *Handler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported", zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	sub := h.hub.Subscribe(userID)
	defer sub.Unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	if _, err := fmt.Fprint(c.Writer, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.cfg.SSEHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Debug("heartbeat write failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, event); err != nil {
				h.log.Debug("write event failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event sse.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.At.UnixMilli(), event.Type, payload)
	return err
}
