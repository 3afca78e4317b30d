// Package email renders and delivers transactional mail for the commission
// ledger: accrual notices, payment reminders, and settlement receipts.
package email

import (
	"context"
	"fmt"

	"oficios_backend/platform/config"
)

// Sender delivers billing-related mail to professionals.
type Sender interface {
	// SendCommissionAccrued notifies a professional that finishing a job
	// created a pending commission.
	SendCommissionAccrued(ctx context.Context, toEmail, requestTitle string, platformFee, earnings int64) error
	// SendCommissionReminder nudges a professional who still has pending
	// commissions after the configured delay.
	SendCommissionReminder(ctx context.Context, toEmail string, pendingCount int, totalFees int64) error
	// SendSettlementReceipt confirms a bulk settlement run.
	SendSettlementReceipt(ctx context.Context, toEmail string, settledCount int, totalFees int64) error
}

// NoopSender discards all mail. Used when EMAIL_ENABLED is false.
type NoopSender struct{}

func (NoopSender) SendCommissionAccrued(context.Context, string, string, int64, int64) error {
	return nil
}

func (NoopSender) SendCommissionReminder(context.Context, string, int, int64) error {
	return nil
}

func (NoopSender) SendSettlementReceipt(context.Context, string, int, int64) error {
	return nil
}

var _ Sender = NoopSender{}

// NewSender builds the configured sender, or a NoopSender when email is
// disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetSMTPHost() == "" || cfg.GetEmailFromAddress() == "" {
		return nil, fmt.Errorf("smtp host and from address are required when email is enabled")
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	), nil
}
