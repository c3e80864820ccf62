package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/db"
	"github.com/slateroom/slateroom-backend/internal/observability"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
	"github.com/slateroom/slateroom-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	eventBus     bus.Bus
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "slateroom-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := realtime.NewHub(log)

	// The redis bus is optional; a single instance runs fine on the local
	// hub alone.
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, running with local hub only", "error", err)
		eventBus = nil
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, hub, eventBus)
	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		eventBus:     eventBus,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the bus forwarder replays events
// published by other instances into the local hub.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.eventBus != nil {
		if err := a.eventBus.StartForwarder(ctx, a.Hub.Publish); err != nil {
			a.Log.Warn("Bus forwarder failed to start", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.Log.Warn("Bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("Otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
