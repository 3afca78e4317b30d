package domain

import (
	"fmt"

	"oficios_backend/platform/apperr"
)

// Typed error constructors for the request lifecycle. Every rejection leaves
// the request unchanged; callers branch on the stable apperr codes.

// ErrInvalidTransition rejects a (from, to) pair absent from the table.
func ErrInvalidTransition(from, to Status) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("transition %s -> %s is not allowed", from, to)).
		WithCode(apperr.CodeInvalidTransition)
}

// ErrNotAuthorized rejects an actor the transition guard does not admit.
func ErrNotAuthorized(role Role) *apperr.Error {
	return apperr.Forbidden(fmt.Sprintf("role %s may not perform this transition", role)).
		WithCode(apperr.CodeNotAuthorized)
}

// ErrAlreadyClaimed rejects a claim on a request owned by another professional.
func ErrAlreadyClaimed() *apperr.Error {
	return apperr.Conflict("request is already claimed by another professional").
		WithCode(apperr.CodeAlreadyClaimed)
}

// ErrPaymentGateBlocked rejects work-taking while commissions are unpaid.
func ErrPaymentGateBlocked(pendingCount int) *apperr.Error {
	return apperr.Forbidden("professional has unpaid commissions and cannot take new work").
		WithCode(apperr.CodePaymentGateBlocked).
		WithDetails(map[string]int{"pendingCount": pendingCount})
}

// ErrInvalidQuote rejects a non-positive quote amount.
func ErrInvalidQuote() *apperr.Error {
	return apperr.Validation("quoted amount must be greater than zero").
		WithCode(apperr.CodeInvalidQuote)
}

// ErrRequestNotFound reports a missing request document.
func ErrRequestNotFound() *apperr.Error {
	return apperr.NotFound("request not found")
}

// ErrConflict reports a lost conditional write; the caller must re-read the
// request and retry with fresh state.
func ErrConflict() *apperr.Error {
	return apperr.Conflict("request was modified concurrently, re-read and retry")
}
