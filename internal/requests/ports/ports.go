// Package ports defines the interfaces the requests domain requires from
// external systems. The lifecycle engine only knows the questions it needs
// answered, not who answers them.
package ports

import (
	"context"

	"github.com/google/uuid"

	"oficios_backend/internal/requests/domain"
)

// WorkGate decides whether a professional may take on new work. The billing
// module implements it over the commission ledger.
type WorkGate interface {
	// EnsureCanTakeWork returns nil when the professional is clear, or a
	// payment-gate error carrying the pending count when blocked.
	EnsureCanTakeWork(ctx context.Context, professionalID uuid.UUID, kind domain.ProfessionalKind) error

	// NoteAccrual tells the gate a commission just accrued for the
	// professional, so the next check cannot answer from a summary cached
	// before the accrual.
	NoteAccrual(ctx context.Context, professionalID uuid.UUID) error
}
