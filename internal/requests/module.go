// Package requests provides the service request bounded context module:
// intake, the claim protocol, quoting, and lifecycle transitions.
package requests

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"oficios_backend/internal/events"
	apphttp "oficios_backend/internal/http"
	"oficios_backend/internal/requests/handler"
	"oficios_backend/internal/requests/ports"
	"oficios_backend/internal/requests/repository"
	"oficios_backend/internal/requests/service"
	"oficios_backend/platform/config"
	"oficios_backend/platform/httpkit"
	"oficios_backend/platform/logger"
	"oficios_backend/platform/validator"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module with all its dependencies.
func NewModule(pool *pgxpool.Pool, gate ports.WorkGate, bus events.Bus, cfg config.CommissionConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, gate, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts request lifecycle routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/requests")
	group.POST("", ctx.IntakeRateLimiter.RateLimit(), httpkit.RequireRole("customer"), m.handler.Submit)
	group.GET("/open", httpkit.RequireRole("professional"), m.handler.ListOpen)
	group.GET("/mine", m.handler.ListMine)
	group.GET("/:id", m.handler.Get)
	group.POST("/:id/claim", httpkit.RequireRole("professional"), m.handler.Claim)
	group.POST("/:id/quote", httpkit.RequireRole("professional"), m.handler.SubmitQuote)
	group.POST("/:id/status", m.handler.AdvanceStatus)

	ctx.Admin.GET("/requests", m.handler.ListAll)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
