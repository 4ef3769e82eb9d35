package handler

import (
	"net/http"

	"quotehub_backend/internal/inventory/service"
	"quotehub_backend/platform/httpkit"
	"quotehub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for inventory
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new inventory handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the inventory routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock/:productId", h.GetAvailability)
	rg.PUT("/stock/:productId", h.SetStockLevel)
	rg.GET("/orders/:id", h.GetOrder)
}

type setStockRequest struct {
	Location string  `json:"location" validate:"required,min=1,max=200"`
	OnHand   float64 `json:"onHand" validate:"min=0"`
	Reserved float64 `json:"reserved" validate:"min=0"`
}

// GetAvailability handles GET /api/v1/inventory/stock/:productId?location=
func (h *Handler) GetAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	location := c.Query("location")
	if location == "" {
		httpkit.Error(c, http.StatusBadRequest, "location is required", nil)
		return
	}
	result, err := h.svc.GetAvailability(c.Request.Context(), productID, location)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"productId": result.ProductID,
		"location":  result.Location,
		"onHand":    result.OnHand,
		"reserved":  result.Reserved,
		"available": result.Available,
	})
}

// SetStockLevel handles PUT /api/v1/inventory/stock/:productId
func (h *Handler) SetStockLevel(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if err := h.svc.SetStockLevel(c.Request.Context(), productID, req.Location, req.OnHand, req.Reserved); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "updated"})
}

// GetOrder handles GET /api/v1/inventory/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, order)
}
