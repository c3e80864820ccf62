package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/slateroom/slateroom-backend/internal/http/handlers"
	httpMW "github.com/slateroom/slateroom-backend/internal/http/middleware"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowOrigins   []string
	AuthMiddleware *httpMW.AuthMiddleware

	ScriptHandler         *httpH.ScriptHandler
	ElementHandler        *httpH.ElementHandler
	ReconciliationHandler *httpH.ReconciliationHandler
	EventsHandler         *httpH.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	r.GET("/healthcheck", httpH.HealthCheck)

	api := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Scripts
		if cfg.ScriptHandler != nil {
			api.POST("/scripts", cfg.ScriptHandler.CreateScript)
			api.GET("/scripts/:id", cfg.ScriptHandler.GetScript)
			api.POST("/scripts/:id/revisions", cfg.ScriptHandler.CreateRevision)
			api.POST("/scripts/:id/detections", cfg.ScriptHandler.IngestDetections)
			api.POST("/scripts/:id/process", cfg.ScriptHandler.ProcessDetections)
			api.POST("/scripts/:id/review/complete", cfg.ScriptHandler.CompleteReview)
		}

		// Elements
		if cfg.ElementHandler != nil {
			api.GET("/scripts/:id/elements", cfg.ElementHandler.ListByScript)
			api.GET("/elements/:id", cfg.ElementHandler.GetDetail)
			api.POST("/elements/:id/archive", cfg.ElementHandler.Archive)
			api.POST("/elements/:id/options", cfg.ElementHandler.AddOption)
			api.POST("/elements/:id/approvals", cfg.ElementHandler.AddApproval)
			api.POST("/elements/:id/notes", cfg.ElementHandler.AddNote)
		}

		// Reconciliation
		if cfg.ReconciliationHandler != nil {
			api.GET("/scripts/:id/reconciliation", cfg.ReconciliationHandler.GetState)
			api.POST("/scripts/:id/reconciliation/resolve", cfg.ReconciliationHandler.Resolve)
		}
	}

	// Realtime (SSE)
	if cfg.EventsHandler != nil {
		events := r.Group("/events")
		if cfg.AuthMiddleware != nil {
			events.Use(cfg.AuthMiddleware.RequireAuth())
		}
		events.GET("/stream", cfg.EventsHandler.Stream)
	}

	return r
}
