package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"oficios_backend/internal/requests/domain"
)

// PendingSummary aggregates a professional's unsettled commission debt.
type PendingSummary struct {
	ProfessionalID uuid.UUID
	PendingCount   int
	TotalFees      int64
}

// LedgerEntry is one commission row in the ledger listing.
type LedgerEntry struct {
	RequestID            uuid.UUID            `db:"id"`
	ProfessionalID       uuid.UUID            `db:"assigned_professional_id"`
	QuotedAmount         int64                `db:"quoted_amount"`
	RateBps              int                  `db:"commission_rate_bps"`
	PlatformFee          int64                `db:"platform_fee"`
	ProfessionalEarnings int64                `db:"professional_earnings"`
	PaymentStatus        domain.PaymentStatus `db:"payment_status"`
	UpdatedAt            time.Time            `db:"updated_at"`
}

// LedgerReader provides read operations over the commission ledger.
type LedgerReader interface {
	GetPendingSummary(ctx context.Context, professionalID uuid.UUID) (PendingSummary, error)
	ListPending(ctx context.Context, professionalID uuid.UUID) ([]LedgerEntry, error)
	// ListPendingIDs returns up to limit pending entries in stable order for
	// chunked settlement.
	ListPendingIDs(ctx context.Context, professionalID uuid.UUID, limit int) ([]uuid.UUID, error)
}

// LedgerWriter provides settlement writes over the commission ledger.
type LedgerWriter interface {
	// SettleChunk marks the given entries Paid inside one transaction and
	// returns how many rows actually flipped. Entries already Paid are
	// skipped, which makes re-runs harmless.
	SettleChunk(ctx context.Context, ids []uuid.UUID) (int, error)
	// SetPaymentStatus flips a single entry. Returns the entry as it was
	// before the write so the caller can validate and publish.
	SetPaymentStatus(ctx context.Context, requestID uuid.UUID, status domain.PaymentStatus) (LedgerEntry, error)
}

// Repository combines all commission ledger operations.
type Repository interface {
	LedgerReader
	LedgerWriter
}
