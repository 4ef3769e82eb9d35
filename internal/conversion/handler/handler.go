package handler

import (
	"net/http"

	"quotehub_backend/internal/conversion/service"
	"quotehub_backend/internal/conversion/transport"
	"quotehub_backend/platform/httpkit"
	"quotehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for quote conversion
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new conversion handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the conversion routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/conversion/preview", h.Preview)
	rg.POST("/:id/conversion/commit", h.Commit)
}

// Preview handles POST /api/v1/quotes/:id/conversion/preview
func (h *Handler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req transport.PreviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	result, err := h.svc.Preview(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Commit handles POST /api/v1/quotes/:id/conversion/commit
func (h *Handler) Commit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req transport.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	actorID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.svc.Commit(c.Request.Context(), id, actorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
