// Package transport defines the request/response DTOs for the billing API.
package transport

import (
	"github.com/google/uuid"
)

// SetPaymentStatusRequest flips a single ledger entry (admin override).
type SetPaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required,oneof=Pending Paid"`
}

// CommissionEntryResponse is one pending ledger entry.
type CommissionEntryResponse struct {
	RequestID            uuid.UUID `json:"requestId"`
	QuotedAmount         int64     `json:"quotedAmount"`
	RateBps              int       `json:"rateBps"`
	PlatformFee          int64     `json:"platformFee"`
	ProfessionalEarnings int64     `json:"professionalEarnings"`
	PaymentStatus        string    `json:"paymentStatus"`
}

// PendingSummaryResponse is a professional's commission debt position.
type PendingSummaryResponse struct {
	ProfessionalID uuid.UUID                 `json:"professionalId"`
	PendingCount   int                       `json:"pendingCount"`
	TotalFees      int64                     `json:"totalFees"`
	Blocked        bool                      `json:"blocked"`
	Threshold      int                       `json:"threshold"`
	Entries        []CommissionEntryResponse `json:"entries,omitempty"`
}

// SettleResponse reports the outcome of a bulk settlement run.
type SettleResponse struct {
	ProfessionalID uuid.UUID `json:"professionalId"`
	SettledCount   int       `json:"settledCount"`
	Chunks         int       `json:"chunks"`
}

// PaymentOverrideResponse reports a single-entry override.
type PaymentOverrideResponse struct {
	RequestID     uuid.UUID `json:"requestId"`
	PaymentStatus string    `json:"paymentStatus"`
}
