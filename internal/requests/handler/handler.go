package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oficios_backend/internal/requests/domain"
	"oficios_backend/internal/requests/service"
	"oficios_backend/internal/requests/transport"
	"oficios_backend/platform/httpkit"
	"oficios_backend/platform/validator"
)

// Handler handles HTTP requests for the request lifecycle.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid request ID"
)

// New creates a new requests handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Submit creates a new service request.
// POST /api/v1/requests
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequestRequest
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

	result, err := h.svc.Submit(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Get retrieves a single request.
// GET /api/v1/requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, actor, ok := h.idAndActor(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Claim assigns an open request to the calling professional.
// POST /api/v1/requests/:id/claim
func (h *Handler) Claim(c *gin.Context) {
	id, actor, ok := h.idAndActor(c)
	if !ok {
		return
	}

	result, err := h.svc.Claim(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitQuote attaches a quote to a request under review.
// POST /api/v1/requests/:id/quote
func (h *Handler) SubmitQuote(c *gin.Context) {
	id, actor, ok := h.idAndActor(c)
	if !ok {
		return
	}
	var req transport.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SubmitQuote(c.Request.Context(), id, actor, req.Amount, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AdvanceStatus moves a request to a new status.
// POST /api/v1/requests/:id/status
func (h *Handler) AdvanceStatus(c *gin.Context) {
	id, actor, ok := h.idAndActor(c)
	if !ok {
		return
	}
	var req transport.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.AdvanceStatus(c.Request.Context(), id, actor, domain.Status(req.To))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListOpen retrieves the feed of unclaimed requests.
// GET /api/v1/requests/open
func (h *Handler) ListOpen(c *gin.Context) {
	var req transport.ListRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ListOpen(c.Request.Context(), req.Page, req.PageSize)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListMine retrieves the caller's requests: assignments for professionals,
// submissions for customers.
// GET /api/v1/requests/mine
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var (
		result transport.RequestListResponse
		err    error
	)
	if identity.Role() == string(domain.RoleProfessional) {
		result, err = h.svc.ListAssigned(c.Request.Context(), identity.UserID())
	} else {
		result, err = h.svc.ListOwn(c.Request.Context(), identity.UserID())
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListAll retrieves all requests with filters (admin only).
// GET /api/v1/admin/requests
func (h *Handler) ListAll(c *gin.Context) {
	var req transport.ListRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ListAll(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) idAndActor(c *gin.Context) (uuid.UUID, service.Actor, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, service.Actor{}, false
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, service.Actor{}, false
	}
	actor := service.Actor{
		ID:   identity.UserID(),
		Role: domain.Role(identity.Role()),
		Kind: domain.ProfessionalKind(identity.ProfessionalKind()),
	}
	return id, actor, true
}
