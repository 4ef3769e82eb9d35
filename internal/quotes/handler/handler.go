package handler

import (
	"net/http"

	"quotehub_backend/internal/quotes/service"
	"quotehub_backend/internal/quotes/transport"
	"quotehub_backend/platform/httpkit"
	"quotehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for quotes
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/calculate", h.Calculate)
	rg.POST("/expire-sweep", h.ExpireSweep)
	rg.POST("/:id/recalculate", h.Recalculate)

	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/review", h.StartReview)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/won", h.MarkWon)
	rg.POST("/:id/lost", h.MarkLost)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/reopen", h.Reopen)

	rg.POST("/:id/revisions", h.Revise)
	rg.GET("/:id/revisions", h.ListRevisions)

	rg.POST("/:id/sections", h.AddSection)
	rg.PUT("/:id/sections/:sectionId", h.UpdateSection)
	rg.DELETE("/:id/sections/:sectionId", h.DeleteSection)

	rg.POST("/:id/sections/:sectionId/items", h.AddItem)
	rg.PUT("/:id/items/:itemId", h.UpdateItem)
	rg.DELETE("/:id/items/:itemId", h.DeleteItem)

	rg.POST("/:id/contacts", h.AddContact)
	rg.PUT("/:id/contacts/:contactId", h.UpdateContact)
	rg.DELETE("/:id/contacts/:contactId", h.DeleteContact)

	rg.GET("/:id/notes", h.ListNotes)
	rg.POST("/:id/notes", h.AddNote)
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	actorID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), actorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/quotes/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update handles PUT /api/v1/quotes/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "deleted"})
}

// Calculate handles POST /api/v1/quotes/calculate. It previews the totals
// cascade for unsaved input without touching storage.
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	httpkit.OK(c, h.svc.Preview(&req))
}

// ExpireSweep handles POST /api/v1/quotes/expire-sweep. It runs the expiry
// sweep on demand, independent of the scheduled background run.
func (h *Handler) ExpireSweep(c *gin.Context) {
	count, err := h.svc.ExpireOverdue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ExpireSweepResponse{Expired: count})
}

// Recalculate handles POST /api/v1/quotes/:id/recalculate
func (h *Handler) Recalculate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Recalculate(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

func (h *Handler) lifecycle(c *gin.Context, fn func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actorID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}
	result, err := fn(id, actorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Submit handles POST /api/v1/quotes/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.Submit(c.Request.Context(), quoteID, actorID)
	})
}

// StartReview handles POST /api/v1/quotes/:id/review
func (h *Handler) StartReview(c *gin.Context) {
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.StartReview(c.Request.Context(), quoteID, actorID)
	})
}

// Approve handles POST /api/v1/quotes/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.Approve(c.Request.Context(), quoteID, actorID)
	})
}

// Reject handles POST /api/v1/quotes/:id/reject
func (h *Handler) Reject(c *gin.Context) {
	var req transport.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.Reject(c.Request.Context(), quoteID, actorID, req)
	})
}

// MarkWon handles POST /api/v1/quotes/:id/won
func (h *Handler) MarkWon(c *gin.Context) {
	var req transport.MarkWonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.MarkWon(c.Request.Context(), quoteID, actorID, req)
	})
}

// MarkLost handles POST /api/v1/quotes/:id/lost
func (h *Handler) MarkLost(c *gin.Context) {
	var req transport.MarkLostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.MarkLost(c.Request.Context(), quoteID, actorID, req)
	})
}

// Cancel handles POST /api/v1/quotes/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	var req transport.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.Cancel(c.Request.Context(), quoteID, actorID, req)
	})
}

// Reopen handles POST /api/v1/quotes/:id/reopen
func (h *Handler) Reopen(c *gin.Context) {
	h.lifecycle(c, func(quoteID, actorID uuid.UUID) (*transport.QuoteResponse, error) {
		return h.svc.Reopen(c.Request.Context(), quoteID, actorID)
	})
}

// ── Revisions ─────────────────────────────────────────────────────────────────

// Revise handles POST /api/v1/quotes/:id/revisions
func (h *Handler) Revise(c *gin.Context) {
	var req transport.ReviseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actorID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.svc.Revise(c.Request.Context(), id, actorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListRevisions handles GET /api/v1/quotes/:id/revisions
func (h *Handler) ListRevisions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListRevisions(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ── Sections and Items ────────────────────────────────────────────────────────

// AddSection handles POST /api/v1/quotes/:id/sections
func (h *Handler) AddSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.AddSection(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateSection handles PUT /api/v1/quotes/:id/sections/:sectionId
func (h *Handler) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := parseID(c, "sectionId")
	if !ok {
		return
	}
	var req transport.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.UpdateSection(c.Request.Context(), id, sectionID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteSection handles DELETE /api/v1/quotes/:id/sections/:sectionId
func (h *Handler) DeleteSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := parseID(c, "sectionId")
	if !ok {
		return
	}
	result, err := h.svc.DeleteSection(c.Request.Context(), id, sectionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddItem handles POST /api/v1/quotes/:id/sections/:sectionId/items
func (h *Handler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sectionID, ok := parseID(c, "sectionId")
	if !ok {
		return
	}
	var req transport.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.AddItem(c.Request.Context(), id, sectionID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateItem handles PUT /api/v1/quotes/:id/items/:itemId
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var req transport.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.UpdateItem(c.Request.Context(), id, itemID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteItem handles DELETE /api/v1/quotes/:id/items/:itemId
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	result, err := h.svc.DeleteItem(c.Request.Context(), id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ── Contacts ──────────────────────────────────────────────────────────────────

// AddContact handles POST /api/v1/quotes/:id/contacts
func (h *Handler) AddContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transport.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.AddContact(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateContact handles PUT /api/v1/quotes/:id/contacts/:contactId
func (h *Handler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}
	var req transport.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	result, err := h.svc.UpdateContact(c.Request.Context(), id, contactID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteContact handles DELETE /api/v1/quotes/:id/contacts/:contactId
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	contactID, ok := parseID(c, "contactId")
	if !ok {
		return
	}
	result, err := h.svc.DeleteContact(c.Request.Context(), id, contactID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ── Notes ─────────────────────────────────────────────────────────────────────

type addNoteRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

// AddNote handles POST /api/v1/quotes/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	actorID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.svc.AddNote(c.Request.Context(), id, actorID, req.Body); httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, gin.H{"status": "created"})
}

// ListNotes handles GET /api/v1/quotes/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListNotes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
