package app

import (
	"gorm.io/gorm"

	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/realtime"
	"github.com/slateroom/slateroom-backend/internal/realtime/bus"
	"github.com/slateroom/slateroom-backend/internal/services"
)

type Services struct {
	Token          services.TokenService
	Script         services.ScriptService
	Element        services.ElementService
	Reconciliation services.ReconciliationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *realtime.Hub, eventBus bus.Bus) Services {
	log.Info("Wiring services...")

	tokenService := services.NewTokenService(log, cfg.JWTSecretKey)

	// Pull-style detection is optional; without a configured pipeline URL
	// the push-style detections endpoint is the only intake.
	var source services.DetectionSource
	if cfg.DetectionServiceURL != "" {
		var err error
		source, err = services.NewHTTPDetectionSource(log, cfg.DetectionServiceURL)
		if err != nil {
			log.Warn("Detection source unavailable, push-style intake only", "error", err)
		}
	}

	scriptService := services.NewScriptService(
		db,
		log,
		r.Script,
		r.Element,
		r.RevisionMatch,
		source,
		hub,
		eventBus,
		cfg.FuzzyThreshold,
	)
	elementService := services.NewElementService(
		db,
		log,
		r.Script,
		r.Element,
		r.ElementOption,
		r.ElementApproval,
		r.ElementNote,
	)
	reconciliationService := services.NewReconciliationService(
		db,
		log,
		r.Script,
		r.Element,
		r.ElementOption,
		r.ElementApproval,
		r.ElementNote,
		r.RevisionMatch,
		hub,
		eventBus,
	)

	return Services{
		Token:          tokenService,
		Script:         scriptService,
		Element:        elementService,
		Reconciliation: reconciliationService,
	}
}
