// Package quotes provides the quote document domain module.
package quotes

import (
	"quotehub_backend/internal/events"
	apphttp "quotehub_backend/internal/http"
	"quotehub_backend/internal/quotes/handler"
	"quotehub_backend/internal/quotes/ports"
	"quotehub_backend/internal/quotes/repository"
	"quotehub_backend/internal/quotes/service"
	"quotehub_backend/platform/logger"
	"quotehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired
func NewModule(pool *pgxpool.Pool, catalog ports.CatalogReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

var _ apphttp.Module = (*Module)(nil)
