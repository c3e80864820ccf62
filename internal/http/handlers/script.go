package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/domain"
	"github.com/slateroom/slateroom-backend/internal/http/response"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/services"
)

type ScriptHandler struct {
	log     *logger.Logger
	scripts services.ScriptService
}

func NewScriptHandler(log *logger.Logger, scripts services.ScriptService) *ScriptHandler {
	return &ScriptHandler{
		log:     log.With("handler", "ScriptHandler"),
		scripts: scripts,
	}
}

type createScriptRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ScriptHandler) CreateScript(c *gin.Context) {
	var req createScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	script, err := h.scripts.CreateScript(dbc, req.Title)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, script)
}

type createRevisionRequest struct {
	Title string `json:"title"`
}

func (h *ScriptHandler) CreateRevision(c *gin.Context) {
	parentID, ok := scriptIDParam(c)
	if !ok {
		return
	}
	var req createRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	revision, err := h.scripts.CreateRevision(dbc, parentID, req.Title)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, revision)
}

func (h *ScriptHandler) GetScript(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	script, err := h.scripts.GetScript(dbc, scriptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, script)
}

func (h *ScriptHandler) CompleteReview(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	script, err := h.scripts.CompleteReview(dbc, scriptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, script)
}

type ingestDetectionsRequest struct {
	Elements []domain.DetectedElement `json:"elements" binding:"required"`
}

// IngestDetections is the callback surface for the detection pipeline: it
// posts the detected-element list for a PROCESSING revision and the
// classifier pass runs synchronously.
func (h *ScriptHandler) IngestDetections(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}
	var req ingestDetectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.scripts.IngestDetections(dbc, scriptID, req.Elements)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// ProcessDetections pulls the detected-element list from the configured
// extraction pipeline instead of waiting for its callback.
func (h *ScriptHandler) ProcessDetections(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.scripts.ProcessFromSource(dbc, scriptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func scriptIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_script_id", err)
		return uuid.Nil, false
	}
	return id, true
}
