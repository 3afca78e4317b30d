// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/google/uuid"

	"oficios_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Request Lifecycle Events
// =============================================================================

// RequestSubmitted is published when a customer submits a new service request.
type RequestSubmitted struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	Title      string    `json:"title"`
}

func (e RequestSubmitted) EventName() string { return "requests.request.submitted" }

// RequestClaimed is published when a professional wins the claim on an
// unassigned request.
type RequestClaimed struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	CustomerID     uuid.UUID `json:"customerId"`
}

func (e RequestClaimed) EventName() string { return "requests.request.claimed" }

// QuoteSubmitted is published when the assigned professional attaches a quote.
type QuoteSubmitted struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	CustomerID     uuid.UUID `json:"customerId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
}

func (e QuoteSubmitted) EventName() string { return "requests.quote.submitted" }

// RequestStatusChanged is published on every successful status transition.
type RequestStatusChanged struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e RequestStatusChanged) EventName() string { return "requests.request.status_changed" }

// RequestCancelled is published when a request reaches Cancelled.
type RequestCancelled struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e RequestCancelled) EventName() string { return "requests.request.cancelled" }

// =============================================================================
// Commission Ledger Events
// =============================================================================

// CommissionAccrued is published when finishing a request writes a pending
// ledger entry.
type CommissionAccrued struct {
	BaseEvent
	RequestID            uuid.UUID `json:"requestId"`
	RequestTitle         string    `json:"requestTitle"`
	ProfessionalID       uuid.UUID `json:"professionalId"`
	PlatformFee          int64     `json:"platformFee"`
	ProfessionalEarnings int64     `json:"professionalEarnings"`
	RateBps              int       `json:"rateBps"`
}

func (e CommissionAccrued) EventName() string { return "billing.commission.accrued" }

// CommissionsSettled is published after a bulk settlement run completes.
type CommissionsSettled struct {
	BaseEvent
	ProfessionalID uuid.UUID   `json:"professionalId"`
	RequestIDs     []uuid.UUID `json:"requestIds"`
	SettledCount   int         `json:"settledCount"`
	TotalFees      int64       `json:"totalFees"`
}

func (e CommissionsSettled) EventName() string { return "billing.commissions.settled" }

// CommissionPaymentOverridden is published when an admin flips a single
// ledger entry's payment status.
type CommissionPaymentOverridden struct {
	BaseEvent
	RequestID      uuid.UUID `json:"requestId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	PaymentStatus  string    `json:"paymentStatus"`
	AdminID        uuid.UUID `json:"adminId"`
}

func (e CommissionPaymentOverridden) EventName() string { return "billing.commission.payment_overridden" }
