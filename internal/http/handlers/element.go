package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/http/response"
	"github.com/slateroom/slateroom-backend/internal/pkg/dbctx"
	"github.com/slateroom/slateroom-backend/internal/platform/logger"
	"github.com/slateroom/slateroom-backend/internal/services"
)

type ElementHandler struct {
	log      *logger.Logger
	elements services.ElementService
}

func NewElementHandler(log *logger.Logger, elements services.ElementService) *ElementHandler {
	return &ElementHandler{
		log:      log.With("handler", "ElementHandler"),
		elements: elements,
	}
}

func (h *ElementHandler) ListByScript(c *gin.Context) {
	scriptID, ok := scriptIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	summaries, err := h.elements.ListByScript(dbc, scriptID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"elements": summaries})
}

func (h *ElementHandler) GetDetail(c *gin.Context) {
	elementID, ok := elementIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	detail, err := h.elements.GetDetail(dbc, elementID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

func (h *ElementHandler) Archive(c *gin.Context) {
	elementID, ok := elementIDParam(c)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.elements.Archive(dbc, elementID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "archived"})
}

type addOptionRequest struct {
	Label      string `json:"label"`
	StorageKey string `json:"storage_key" binding:"required"`
}

func (h *ElementHandler) AddOption(c *gin.Context) {
	elementID, ok := elementIDParam(c)
	if !ok {
		return
	}
	var req addOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	option, err := h.elements.AddOption(dbc, elementID, req.Label, req.StorageKey)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

type addApprovalRequest struct {
	OptionID *uuid.UUID `json:"option_id"`
	Status   string     `json:"status" binding:"required"`
	Comment  string     `json:"comment"`
}

func (h *ElementHandler) AddApproval(c *gin.Context) {
	elementID, ok := elementIDParam(c)
	if !ok {
		return
	}
	var req addApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	approval, err := h.elements.AddApproval(dbc, elementID, req.OptionID, req.Status, req.Comment)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, approval)
}

type addNoteRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ElementHandler) AddNote(c *gin.Context) {
	elementID, ok := elementIDParam(c)
	if !ok {
		return
	}
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	note, err := h.elements.AddNote(dbc, elementID, req.Body)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func elementIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_element_id", err)
		return uuid.Nil, false
	}
	return id, true
}
