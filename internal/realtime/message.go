package realtime

import "github.com/google/uuid"

const (
	EventScriptStatus   = "script.status"
	EventReconciliation = "script.reconciliation"
)

// SSEMessage is one event fanned out to subscribed stream clients.
type SSEMessage struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Data    interface{} `json:"data,omitempty"`
}

// ScriptChannel names the per-script event channel.
func ScriptChannel(scriptID uuid.UUID) string {
	return "script:" + scriptID.String()
}
