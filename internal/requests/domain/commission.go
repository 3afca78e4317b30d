package domain

// PaymentStatus is the settlement state of a commission ledger entry.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Commission is the ledger entry written when a request is finished. The rate
// actually applied is recorded in basis points so later configuration changes
// never alter historical records.
type Commission struct {
	RateBps              int
	PlatformFee          int64
	ProfessionalEarnings int64
	PaymentStatus        PaymentStatus
}

// ComputeCommission splits a quoted amount between platform and professional.
// Amounts are integer minor currency units. The platform fee truncates toward
// zero so rounding never pays the platform more than the configured rate:
//
//	platformFee = floor(quotedAmount * rateBps / 10000)
//	professionalEarnings = quotedAmount - platformFee
func ComputeCommission(quotedAmount int64, rateBps int) (platformFee, professionalEarnings int64) {
	if quotedAmount <= 0 || rateBps <= 0 {
		return 0, max64(quotedAmount, 0)
	}
	platformFee = quotedAmount * int64(rateBps) / 10000
	return platformFee, quotedAmount - platformFee
}

// NewCommission builds the pending ledger entry for a finished request, or
// nil when no platform fee is owed (zero amount or zero rate).
func NewCommission(quotedAmount int64, rateBps int) *Commission {
	platformFee, earnings := ComputeCommission(quotedAmount, rateBps)
	if platformFee <= 0 {
		return nil
	}
	return &Commission{
		RateBps:              rateBps,
		PlatformFee:          platformFee,
		ProfessionalEarnings: earnings,
		PaymentStatus:        PaymentPending,
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
