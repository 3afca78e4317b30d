// Package adapters wires cross-module dependencies through narrow interfaces
// so bounded contexts never import each other's services directly.
package adapters

import (
	"context"

	"github.com/google/uuid"

	billingservice "oficios_backend/internal/billing/service"
	"oficios_backend/internal/requests/domain"
	"oficios_backend/internal/requests/ports"
)

// PaymentGateAdapter implements ports.WorkGate by delegating to the billing
// service's pending-commission check.
type PaymentGateAdapter struct {
	billing *billingservice.Service
}

// NewPaymentGate creates a new adapter over the billing service.
func NewPaymentGate(billing *billingservice.Service) *PaymentGateAdapter {
	return &PaymentGateAdapter{billing: billing}
}

// EnsureCanTakeWork asks the ledger whether the professional is clear.
func (a *PaymentGateAdapter) EnsureCanTakeWork(ctx context.Context, professionalID uuid.UUID, kind domain.ProfessionalKind) error {
	return a.billing.EnsureCanTakeWork(ctx, professionalID, kind)
}

// NoteAccrual drops the professional's cached summary so the gate sees the
// new pending commission immediately.
func (a *PaymentGateAdapter) NoteAccrual(ctx context.Context, professionalID uuid.UUID) error {
	return a.billing.InvalidateSummary(ctx, professionalID)
}

// Compile-time check that the adapter satisfies the port.
var _ ports.WorkGate = (*PaymentGateAdapter)(nil)
