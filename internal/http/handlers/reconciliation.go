package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slateroom/slateroom-backend/internal/http/response"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/services"
)

type ReconciliationHandler struct {
	log            *logger.Logger
	reconciliation services.ReconciliationService
}

func NewReconciliationHandler(log *logger.Logger, reconciliation services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		log:            log.With("handler", "ReconciliationHandler"),
		reconciliation: reconciliation,
	}
}

func (h *ReconciliationHandler) GetState(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	state, err := h.reconciliation.GetState(dbc, scriptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, state)
}

type resolveRequest struct {
	Decisions []services.MatchDecision `json:"decisions" binding:"required"`
}

func (h *ReconciliationHandler) Resolve(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.reconciliation.Resolve(dbc, scriptID, req.Decisions); err != nil {
		status, code := response.MapServiceError(err)
		if status == http.StatusInternalServerError {
			// A failed write inside the resolve transaction rolls the whole
			// submission back; the caller can retry it verbatim.
			code = "persistence_failure"
		}
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "resolved"})
}
