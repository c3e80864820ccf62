package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/http/response"
	"github.com/slateroom/slateroom-backend/internal/pkg/ctxutil"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
)

const heartbeatInterval = 25 * time.Second

type EventsHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewEventsHandler(log *logger.Logger, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{
		log: log.With("handler", "EventsHandler"),
		hub: hub,
	}
}

// Stream holds an SSE connection open and forwards hub messages for the
// channels named in the "channels" query parameter. Heartbeat comments keep
// intermediaries from closing idle connections.
func (h *EventsHandler) Stream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	channels := parseChannels(c.Query("channels"))
	if len(channels) == 0 {
		response.RespondError(c, http.StatusBadRequest, "missing_channels", nil)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.RespondError(c, http.StatusInternalServerError, "streaming_unsupported", nil)
		return
	}

	client := h.hub.Register(rd.UserID, channels...)
	defer h.hub.Unregister(client.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.log.Info("SSE client connected", "client_id", client.ID.String(), "user_id", rd.UserID.String(), "channels", strings.Join(channels, ","))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("SSE client disconnected", "client_id", client.ID.String())
			return
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, open := <-client.Outbound:
			if !open {
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				h.log.Error("Failed to encode SSE message", "error", err)
				continue
			}
			if _, err := c.Writer.WriteString("event: " + msg.Event + "\ndata: " + string(payload) + "\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func parseChannels(raw string) []string {
	parts := strings.Split(raw, ",")
	channels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			channels = append(channels, trimmed)
		}
	}
	return channels
}
