package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/slateroom/slateroom-backend/internal/http"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:                   log,
		ServiceName:           "slateroom-backend",
		AllowOrigins:          cfg.AllowOrigins,
		AuthMiddleware:        middleware.Auth,
		ScriptHandler:         handlers.Script,
		ElementHandler:        handlers.Element,
		ReconciliationHandler: handlers.Reconciliation,
		EventsHandler:         handlers.Events,
	})
}
