// Package inventory provides the stock level and fulfillment order module.
package inventory

import (
	apphttp "quotehub_backend/internal/http"
	"quotehub_backend/internal/inventory/handler"
	"quotehub_backend/internal/inventory/repository"
	"quotehub_backend/internal/inventory/service"
	"quotehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the inventory domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new inventory module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "inventory"
}

// Service returns the service layer for adapter wiring
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/inventory"))
}

var _ apphttp.Module = (*Module)(nil)
