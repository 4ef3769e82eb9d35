// Package catalog provides the product catalog domain module.
package catalog

import (
	"quotehub_backend/internal/catalog/handler"
	"quotehub_backend/internal/catalog/repository"
	"quotehub_backend/internal/catalog/service"
	apphttp "quotehub_backend/internal/http"
	"quotehub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the catalog domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new catalog module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "catalog"
}

// Repository returns the repository for adapter wiring
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/products"))
}

var _ apphttp.Module = (*Module)(nil)
