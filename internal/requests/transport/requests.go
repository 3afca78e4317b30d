// Package transport defines the request/response DTOs for the requests API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitRequestRequest is the customer intake payload.
type SubmitRequestRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=200"`
	Description     string  `json:"description" binding:"required,min=10,max=5000"`
	ContactPhone    string  `json:"contactPhone" binding:"required"`
	ServiceCategory *string `json:"serviceCategory" binding:"omitempty,max=100"`
}

// SubmitQuoteRequest attaches a quote to a request under review.
type SubmitQuoteRequest struct {
	Amount int64   `json:"amount" binding:"required,gt=0"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// AdvanceStatusRequest moves a request to the given status.
type AdvanceStatusRequest struct {
	To string `json:"to" binding:"required"`
}

// ListRequestsRequest filters the admin listing.
type ListRequestsRequest struct {
	Status   string `form:"status" binding:"omitempty"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// QuoteView is the quote portion of a request, present from Quoted onward.
type QuoteView struct {
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
	Notes    *string   `json:"notes,omitempty"`
	QuotedAt time.Time `json:"quotedAt"`
}

// CommissionView is the ledger portion of a request, present once finished.
type CommissionView struct {
	RateBps              int    `json:"rateBps"`
	PlatformFee          int64  `json:"platformFee"`
	ProfessionalEarnings int64  `json:"professionalEarnings"`
	PaymentStatus        string `json:"paymentStatus"`
}

// RequestResponse is the full request view.
type RequestResponse struct {
	ID                     uuid.UUID       `json:"id"`
	CustomerID             uuid.UUID       `json:"customerId"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	ContactPhone           string          `json:"contactPhone"`
	ServiceCategory        *string         `json:"serviceCategory,omitempty"`
	Status                 string          `json:"status"`
	AssignedProfessionalID *uuid.UUID      `json:"assignedProfessionalId,omitempty"`
	Quote                  *QuoteView      `json:"quote,omitempty"`
	Commission             *CommissionView `json:"commission,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// RequestListResponse is a paginated request listing.
type RequestListResponse struct {
	Items    []RequestResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}
