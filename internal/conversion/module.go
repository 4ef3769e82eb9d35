// Package conversion provides the quote-to-order conversion module.
package conversion

import (
	"quotehub_backend/internal/conversion/handler"
	"quotehub_backend/internal/conversion/ports"
	"quotehub_backend/internal/conversion/service"
	"quotehub_backend/internal/events"
	apphttp "quotehub_backend/internal/http"
	"quotehub_backend/platform/logger"
	"quotehub_backend/platform/validator"
)

// Module represents the conversion domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new conversion module. The collaborators are supplied
// by the composition root as port implementations.
func NewModule(quotes ports.QuoteReader, inventory ports.InventoryReader, orders ports.OrderCreator, notes ports.NoteAppender, bus events.Bus, val *validator.Validator, log *logger.Logger, defaultLocation string) *Module {
	svc := service.New(quotes, inventory, orders, notes, bus, log, defaultLocation)
	h := handler.New(svc, val)
	return &Module{handler: h, service: svc}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "conversion"
}

// RegisterRoutes registers the module's routes under the quotes resource
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

var _ apphttp.Module = (*Module)(nil)
