package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oficios_backend/internal/billing/service"
	"oficios_backend/internal/billing/transport"
	"oficios_backend/internal/requests/domain"
	"oficios_backend/platform/httpkit"
	"oficios_backend/platform/validator"
)

// Handler handles HTTP requests for the commission ledger.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid ID"
)

// New creates a new billing handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetOwnSummary returns the calling professional's debt position.
// GET /api/v1/billing/commissions
func (h *Handler) GetOwnSummary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetSummary(c.Request.Context(), identity.UserID(),
		domain.ProfessionalKind(identity.ProfessionalKind()), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetSummary returns a professional's debt position (admin only).
// GET /api/v1/admin/billing/professionals/:id
func (h *Handler) GetSummary(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	kind := domain.ProfessionalKind(c.DefaultQuery("kind", string(domain.KindProfessional)))
	if !domain.ValidKind(kind) {
		httpkit.Error(c, http.StatusBadRequest, "unknown professional kind", nil)
		return
	}

	result, err := h.svc.GetSummary(c.Request.Context(), professionalID, kind, true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SettleAll marks all of a professional's pending commissions Paid (admin only).
// POST /api/v1/admin/billing/professionals/:id/settle
func (h *Handler) SettleAll(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.SettleAll(c.Request.Context(), professionalID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetPaymentStatus flips a single ledger entry (admin only).
// PATCH /api/v1/admin/billing/requests/:id/payment-status
func (h *Handler) SetPaymentStatus(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.SetPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SetPaymentStatus(c.Request.Context(), requestID,
		identity.UserID(), domain.PaymentStatus(req.PaymentStatus))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
