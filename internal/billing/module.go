// Package billing provides the commission ledger bounded context module:
// the payment gate, bulk settlement, and admin overrides.
package billing

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"oficios_backend/internal/billing/cache"
	"oficios_backend/internal/billing/handler"
	"oficios_backend/internal/billing/repository"
	"oficios_backend/internal/billing/service"
	"oficios_backend/internal/events"
	apphttp "oficios_backend/internal/http"
	"oficios_backend/platform/httpkit"
	"oficios_backend/platform/logger"
	"oficios_backend/platform/validator"
)

// Module is the billing bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the billing module with all its dependencies.
func NewModule(pool *pgxpool.Pool, summaryCache *cache.SummaryCache, bus events.Bus, cfg service.Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, summaryCache, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "billing"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts billing routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/billing/commissions", httpkit.RequireRole("professional"), m.handler.GetOwnSummary)

	adminGroup := ctx.Admin.Group("/billing")
	adminGroup.GET("/professionals/:id", m.handler.GetSummary)
	adminGroup.POST("/professionals/:id/settle", m.handler.SettleAll)
	adminGroup.PATCH("/requests/:id/payment-status", m.handler.SetPaymentStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
