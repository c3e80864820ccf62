package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
	"github.com/slateroom/slateroom-backend/internal/realtime/bus"
)

// publishScriptStatus notifies local stream clients and, when a bus is
// configured, other instances about a script status transition. Delivery is
// best effort; a failed publish never fails the request that caused it.
func publishScriptStatus(ctx context.Context, hub *realtime.Hub, eventBus bus.Bus, log *logger.Logger, scriptID uuid.UUID, status string) {
	msg := realtime.SSEMessage{
		Channel: realtime.ScriptChannel(scriptID),
		Event:   realtime.EventScriptStatus,
		Data: map[string]string{
			"script_id": scriptID.String(),
			"status":    status,
		},
	}
	if hub != nil {
		hub.Publish(msg)
	}
	if eventBus != nil {
		if err := eventBus.Publish(ctx, msg); err != nil && log != nil {
			log.Warn("Failed to publish script status to event bus", "script_id", scriptID.String(), "error", err)
		}
	}
}
