package app

import (
	httpH "github.com/slateroom/slateroom-backend/internal/http/handlers"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
)

type Handlers struct {
	Script         *httpH.ScriptHandler
	Element        *httpH.ElementHandler
	Reconciliation *httpH.ReconciliationHandler
	Events         *httpH.EventsHandler
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Script:         httpH.NewScriptHandler(log, s.Script),
		Element:        httpH.NewElementHandler(log, s.Element),
		Reconciliation: httpH.NewReconciliationHandler(log, s.Reconciliation),
		Events:         httpH.NewEventsHandler(log, hub),
	}
}
