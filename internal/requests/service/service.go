// Package service implements the request lifecycle engine: intake, the claim
// protocol, quoting, and guarded status transitions.
package service

import (
	"context"

	"github.com/google/uuid"

	"oficios_backend/internal/events"
	"oficios_backend/internal/requests/domain"
	"oficios_backend/internal/requests/ports"
	"oficios_backend/internal/requests/repository"
	"oficios_backend/internal/requests/transport"
	"oficios_backend/platform/apperr"
	"oficios_backend/platform/config"
	"oficios_backend/platform/logger"
	"oficios_backend/platform/phone"
	"oficios_backend/platform/sanitize"
)

// Actor identifies who is driving an operation.
type Actor struct {
	ID   uuid.UUID
	Role domain.Role
	Kind domain.ProfessionalKind
}

// Service provides business logic for the request lifecycle.
type Service struct {
	repo repository.Repository
	gate ports.WorkGate
	bus  events.Bus
	cfg  config.CommissionConfig
	log  *logger.Logger
}

// New creates a new request lifecycle service.
func New(repo repository.Repository, gate ports.WorkGate, bus events.Bus, cfg config.CommissionConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, gate: gate, bus: bus, cfg: cfg, log: log}
}

// Submit creates a new Submitted request for a customer.
func (s *Service) Submit(ctx context.Context, customerID uuid.UUID, req transport.SubmitRequestRequest) (transport.RequestResponse, error) {
	normalized, err := phone.NormalizeE164(req.ContactPhone)
	if err != nil {
		return transport.RequestResponse{}, apperr.Validation("contact phone is not a valid phone number")
	}

	created, err := s.repo.Create(ctx, repository.CreateParams{
		CustomerID:      customerID,
		Title:           sanitize.Text(req.Title),
		Description:     sanitize.Text(req.Description),
		ContactPhone:    normalized,
		ServiceCategory: sanitize.TextPtr(req.ServiceCategory),
	})
	if err != nil {
		return transport.RequestResponse{}, err
	}

	s.log.Info("request submitted", "requestId", created.ID, "customerId", customerID)
	s.bus.Publish(ctx, events.RequestSubmitted{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  created.ID,
		CustomerID: customerID,
		Title:      created.Title,
	})

	return toResponse(created), nil
}

// Claim atomically assigns an unclaimed request to the professional and moves
// it to UnderReview. Exactly one of N concurrent claimers wins; a repeat claim
// by the current assignee succeeds without changing anything.
func (s *Service) Claim(ctx context.Context, requestID uuid.UUID, actor Actor) (transport.RequestResponse, error) {
	if err := s.gate.EnsureCanTakeWork(ctx, actor.ID, actor.Kind); err != nil {
		// A blocked professional who already owns the request is not taking
		// new work. Let the idempotent path answer.
		if req, readErr := s.repo.GetByID(ctx, requestID); readErr == nil && isAssignee(req, actor.ID) {
			return toResponse(req), nil
		}
		return transport.RequestResponse{}, err
	}

	won, err := s.repo.Claim(ctx, requestID, actor.ID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	if !won {
		switch {
		case isAssignee(req, actor.ID):
			// Repeat claim by the winner.
			return toResponse(req), nil
		case req.AssignedProfessionalID != nil:
			return transport.RequestResponse{}, domain.ErrAlreadyClaimed()
		default:
			return transport.RequestResponse{}, domain.ErrInvalidTransition(req.Status, domain.StatusUnderReview)
		}
	}

	s.log.StatusTransition(req.ID, string(domain.StatusSubmitted), string(domain.StatusUnderReview), actor.ID)
	s.bus.Publish(ctx, events.RequestClaimed{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      req.ID,
		ProfessionalID: actor.ID,
		CustomerID:     req.CustomerID,
	})
	s.publishStatusChanged(ctx, req.ID, domain.StatusSubmitted, domain.StatusUnderReview, actor.ID)

	return toResponse(req), nil
}

// SubmitQuote attaches a quote and moves the request to Quoted. The applied
// currency comes from configuration; the amount is integer minor units.
func (s *Service) SubmitQuote(ctx context.Context, requestID uuid.UUID, actor Actor, amount int64, notes *string) (transport.RequestResponse, error) {
	if amount <= 0 {
		return transport.RequestResponse{}, domain.ErrInvalidQuote()
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if !isAssignee(req, actor.ID) {
		return transport.RequestResponse{}, domain.ErrNotAuthorized(actor.Role)
	}
	rule, ok := domain.RuleFor(req.Status, domain.StatusQuoted)
	if !ok {
		return transport.RequestResponse{}, domain.ErrInvalidTransition(req.Status, domain.StatusQuoted)
	}
	if !rule.Allows(actor.Role) {
		return transport.RequestResponse{}, domain.ErrNotAuthorized(actor.Role)
	}
	if rule.Gated {
		if err := s.gate.EnsureCanTakeWork(ctx, actor.ID, actor.Kind); err != nil {
			return transport.RequestResponse{}, err
		}
	}

	ok, err = s.repo.UpdateStatus(ctx, repository.StatusChange{
		ID:   requestID,
		From: req.Status,
		To:   domain.StatusQuoted,
		SetQuote: &repository.QuoteParams{
			Amount:   amount,
			Currency: s.cfg.GetQuoteCurrency(),
			Notes:    sanitize.TextPtr(notes),
		},
		// A re-quote invalidates any ledger entry computed for the old quote.
		ClearCommission: true,
	})
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if !ok {
		return transport.RequestResponse{}, domain.ErrConflict()
	}

	s.log.StatusTransition(requestID, string(req.Status), string(domain.StatusQuoted), actor.ID)
	s.bus.Publish(ctx, events.QuoteSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		RequestID:      requestID,
		ProfessionalID: actor.ID,
		CustomerID:     req.CustomerID,
		Amount:         amount,
		Currency:       s.cfg.GetQuoteCurrency(),
	})
	s.publishStatusChanged(ctx, requestID, req.Status, domain.StatusQuoted, actor.ID)

	return s.freshResponse(ctx, requestID)
}

// AdvanceStatus moves a request along the lifecycle table. The write is
// conditional on the status the actor saw, so a lost race surfaces as a
// conflict instead of a silent overwrite.
func (s *Service) AdvanceStatus(ctx context.Context, requestID uuid.UUID, actor Actor, to domain.Status) (transport.RequestResponse, error) {
	if !domain.ValidStatus(to) {
		return transport.RequestResponse{}, apperr.Validation("unknown target status")
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}

	// Claiming is its own protocol.
	if req.Status == domain.StatusSubmitted && to == domain.StatusUnderReview {
		return s.Claim(ctx, requestID, actor)
	}
	if to == domain.StatusQuoted && req.Status == domain.StatusUnderReview {
		return transport.RequestResponse{}, apperr.Validation("quoting requires an amount, use the quote endpoint")
	}

	rule, ok := domain.RuleFor(req.Status, to)
	if !ok {
		return transport.RequestResponse{}, domain.ErrInvalidTransition(req.Status, to)
	}
	if !rule.Allows(actor.Role) {
		return transport.RequestResponse{}, domain.ErrNotAuthorized(actor.Role)
	}
	if err := s.checkOwnership(req, actor); err != nil {
		return transport.RequestResponse{}, err
	}
	if rule.Gated && actor.Role == domain.RoleProfessional {
		if err := s.gate.EnsureCanTakeWork(ctx, actor.ID, actor.Kind); err != nil {
			return transport.RequestResponse{}, err
		}
	}

	change := repository.StatusChange{ID: requestID, From: req.Status, To: to}
	var accrued *domain.Commission

	switch to {
	case domain.StatusFinishedByProfessional:
		// A request finished without a quote accrues nothing; the ledger
		// stays empty. The rate in force right now is recorded on the entry.
		if req.QuotedAmount != nil {
			accrued = domain.NewCommission(*req.QuotedAmount, s.cfg.GetCommissionRateBps())
			change.SetCommission = accrued
		}
	case domain.StatusCancelled:
		change.ClearQuote = true
	case domain.StatusUnderReview:
		// Corrective downgrade from FinishedByProfessional wipes the quote
		// and the ledger entry so the request can be re-quoted.
		change.ClearQuote = true
		change.ClearCommission = true
	}

	ok, err = s.repo.UpdateStatus(ctx, change)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if !ok {
		return transport.RequestResponse{}, domain.ErrConflict()
	}

	s.log.StatusTransition(requestID, string(req.Status), string(to), actor.ID)
	s.publishStatusChanged(ctx, requestID, req.Status, to, actor.ID)

	if accrued != nil && req.AssignedProfessionalID != nil {
		// The gate must see the new pending commission before this call
		// returns, not when an async subscriber gets around to it.
		if err := s.gate.NoteAccrual(ctx, *req.AssignedProfessionalID); err != nil {
			s.log.Error("accrual gate refresh failed", "request_id", requestID, "error", err)
		}
		s.log.CommissionAccrued(requestID, *req.AssignedProfessionalID, accrued.PlatformFee, accrued.ProfessionalEarnings)
		s.bus.Publish(ctx, events.CommissionAccrued{
			BaseEvent:            events.NewBaseEvent(),
			RequestID:            requestID,
			RequestTitle:         req.Title,
			ProfessionalID:       *req.AssignedProfessionalID,
			PlatformFee:          accrued.PlatformFee,
			ProfessionalEarnings: accrued.ProfessionalEarnings,
			RateBps:              accrued.RateBps,
		})
	}
	if to == domain.StatusCancelled {
		s.bus.Publish(ctx, events.RequestCancelled{
			BaseEvent:  events.NewBaseEvent(),
			RequestID:  requestID,
			CustomerID: req.CustomerID,
			ActorID:    actor.ID,
		})
	}

	return s.freshResponse(ctx, requestID)
}

// Get retrieves a request the actor is allowed to see.
func (s *Service) Get(ctx context.Context, requestID uuid.UUID, actor Actor) (transport.RequestResponse, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	if !canView(req, actor) {
		return transport.RequestResponse{}, domain.ErrRequestNotFound()
	}
	return toResponse(req), nil
}

// ListOpen retrieves the feed of unclaimed requests for professionals.
func (s *Service) ListOpen(ctx context.Context, page, pageSize int) (transport.RequestListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	items, err := s.repo.ListOpen(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items, len(items), page, pageSize), nil
}

// ListAssigned retrieves the professional's own assignments.
func (s *Service) ListAssigned(ctx context.Context, professionalID uuid.UUID) (transport.RequestListResponse, error) {
	items, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items, len(items), 1, len(items)), nil
}

// ListOwn retrieves the customer's own requests.
func (s *Service) ListOwn(ctx context.Context, customerID uuid.UUID) (transport.RequestListResponse, error) {
	items, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items, len(items), 1, len(items)), nil
}

// ListAll retrieves the admin listing with an optional status filter.
func (s *Service) ListAll(ctx context.Context, req transport.ListRequestsRequest) (transport.RequestListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	var status *domain.Status
	if req.Status != "" {
		st := domain.Status(req.Status)
		if !domain.ValidStatus(st) {
			return transport.RequestListResponse{}, apperr.Validation("unknown status filter")
		}
		status = &st
	}

	items, total, err := s.repo.ListWithFilters(ctx, repository.ListParams{
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.RequestListResponse{}, err
	}
	return toListResponse(items, total, page, pageSize), nil
}

func (s *Service) checkOwnership(req repository.Request, actor Actor) error {
	switch actor.Role {
	case domain.RoleProfessional:
		if !isAssignee(req, actor.ID) {
			return domain.ErrNotAuthorized(actor.Role)
		}
	case domain.RoleCustomer:
		if req.CustomerID != actor.ID {
			return domain.ErrNotAuthorized(actor.Role)
		}
	}
	return nil
}

func (s *Service) publishStatusChanged(ctx context.Context, requestID uuid.UUID, from, to domain.Status, actorID uuid.UUID) {
	s.bus.Publish(ctx, events.RequestStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		RequestID:  requestID,
		FromStatus: string(from),
		ToStatus:   string(to),
		ActorID:    actorID,
	})
}

func (s *Service) freshResponse(ctx context.Context, requestID uuid.UUID) (transport.RequestResponse, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return transport.RequestResponse{}, err
	}
	return toResponse(req), nil
}

func isAssignee(req repository.Request, professionalID uuid.UUID) bool {
	return req.AssignedProfessionalID != nil && *req.AssignedProfessionalID == professionalID
}

func canView(req repository.Request, actor Actor) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return req.CustomerID == actor.ID
	case domain.RoleProfessional:
		// Assignees see their work; anyone may inspect the open feed.
		return isAssignee(req, actor.ID) || req.AssignedProfessionalID == nil
	default:
		return false
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func toResponse(req repository.Request) transport.RequestResponse {
	resp := transport.RequestResponse{
		ID:                     req.ID,
		CustomerID:             req.CustomerID,
		Title:                  req.Title,
		Description:            req.Description,
		ContactPhone:           req.ContactPhone,
		ServiceCategory:        req.ServiceCategory,
		Status:                 string(req.Status),
		AssignedProfessionalID: req.AssignedProfessionalID,
		CreatedAt:              req.CreatedAt,
		UpdatedAt:              req.UpdatedAt,
	}
	if req.QuotedAmount != nil && req.QuoteCurrency != nil && req.QuotedAt != nil {
		resp.Quote = &transport.QuoteView{
			Amount:   *req.QuotedAmount,
			Currency: *req.QuoteCurrency,
			Notes:    req.QuoteNotes,
			QuotedAt: *req.QuotedAt,
		}
	}
	if req.CommissionRateBps != nil && req.PlatformFee != nil && req.ProfessionalEarnings != nil && req.PaymentStatus != nil {
		resp.Commission = &transport.CommissionView{
			RateBps:              *req.CommissionRateBps,
			PlatformFee:          *req.PlatformFee,
			ProfessionalEarnings: *req.ProfessionalEarnings,
			PaymentStatus:        string(*req.PaymentStatus),
		}
	}
	return resp
}

func toListResponse(items []repository.Request, total, page, pageSize int) transport.RequestListResponse {
	responses := make([]transport.RequestResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toResponse(item))
	}
	return transport.RequestListResponse{
		Items:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
