package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"oficios_backend/internal/requests/domain"
)

// Request is the persistence model for a service request. Quote and
// commission columns are nullable and populated only in the statuses the
// lifecycle allows.
type Request struct {
	ID                     uuid.UUID             `db:"id"`
	CustomerID             uuid.UUID             `db:"customer_id"`
	Title                  string                `db:"title"`
	Description            string                `db:"description"`
	ContactPhone           string                `db:"contact_phone"`
	ServiceCategory        *string               `db:"service_category"`
	Status                 domain.Status         `db:"status"`
	AssignedProfessionalID *uuid.UUID            `db:"assigned_professional_id"`
	QuotedAmount           *int64                `db:"quoted_amount"`
	QuoteCurrency          *string               `db:"quote_currency"`
	QuoteNotes             *string               `db:"quote_notes"`
	QuotedAt               *time.Time            `db:"quoted_at"`
	CommissionRateBps      *int                  `db:"commission_rate_bps"`
	PlatformFee            *int64                `db:"platform_fee"`
	ProfessionalEarnings   *int64                `db:"professional_earnings"`
	PaymentStatus          *domain.PaymentStatus `db:"payment_status"`
	CreatedAt              time.Time             `db:"created_at"`
	UpdatedAt              time.Time             `db:"updated_at"`
}

// CreateParams contains parameters for submitting a new request.
type CreateParams struct {
	CustomerID      uuid.UUID
	Title           string
	Description     string
	ContactPhone    string
	ServiceCategory *string
}

// QuoteParams carries the quote columns written by the quoting transition.
type QuoteParams struct {
	Amount   int64
	Currency string
	Notes    *string
}

// StatusChange is a conditional status write. The update only lands when the
// stored status still equals From, so a concurrent writer loses cleanly
// instead of clobbering.
type StatusChange struct {
	ID   uuid.UUID
	From domain.Status
	To   domain.Status

	// SetQuote writes the quote columns alongside the transition.
	SetQuote *QuoteParams
	// ClearQuote nulls the quote columns (cancellation, corrective downgrade).
	ClearQuote bool
	// SetCommission writes the ledger entry alongside the transition.
	SetCommission *domain.Commission
	// ClearCommission nulls the ledger columns.
	ClearCommission bool
}

// ListParams filters and paginates admin request listings.
type ListParams struct {
	Status *domain.Status
	Limit  int
	Offset int
}

// RequestReader provides read operations for service requests.
type RequestReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Request, error)
	ListOpen(ctx context.Context, limit, offset int) ([]Request, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]Request, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Request, error)
	ListWithFilters(ctx context.Context, params ListParams) ([]Request, int, error)
}

// RequestWriter provides write operations for service requests.
type RequestWriter interface {
	Create(ctx context.Context, params CreateParams) (Request, error)
	// Claim atomically assigns an unclaimed Submitted request to the
	// professional and moves it to UnderReview. Returns false when the
	// conditional write matched no row; the caller re-reads to decide
	// between idempotent success and a claim conflict.
	Claim(ctx context.Context, id, professionalID uuid.UUID) (bool, error)
	// UpdateStatus applies a conditional status change. Returns false when
	// the request exists but its status no longer equals change.From.
	UpdateStatus(ctx context.Context, change StatusChange) (bool, error)
}

// Repository combines all request repository operations.
type Repository interface {
	RequestReader
	RequestWriter
}
