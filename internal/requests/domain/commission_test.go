package domain

import "testing"

func TestComputeCommissionStandardRate(t *testing.T) {
	// Quoted at 100,000 with a 10% rate: fee 10,000, earnings 90,000.
	fee, earnings := ComputeCommission(100000, 1000)
	if fee != 10000 {
		t.Fatalf("expected platform fee 10000, got %d", fee)
	}
	if earnings != 90000 {
		t.Fatalf("expected earnings 90000, got %d", earnings)
	}
}

func TestComputeCommissionTruncatesTowardZero(t *testing.T) {
	// 10% of 10,005 is 1,000.5; the platform never rounds up.
	fee, earnings := ComputeCommission(10005, 1000)
	if fee != 1000 {
		t.Fatalf("expected platform fee 1000, got %d", fee)
	}
	if earnings != 9005 {
		t.Fatalf("expected earnings 9005, got %d", earnings)
	}
}

func TestComputeCommissionSumsToQuotedAmount(t *testing.T) {
	amounts := []int64{1, 7, 99, 10005, 123456, 100000, 999999999}
	rates := []int{1, 250, 1000, 1500, 3333, 9999}

	for _, amount := range amounts {
		for _, rate := range rates {
			fee, earnings := ComputeCommission(amount, rate)
			if fee+earnings != amount {
				t.Errorf("ComputeCommission(%d, %d): fee %d + earnings %d != amount", amount, rate, fee, earnings)
			}
			if want := amount * int64(rate) / 10000; fee != want {
				t.Errorf("ComputeCommission(%d, %d): fee %d, want %d", amount, rate, fee, want)
			}
			if fee < 0 || earnings < 0 {
				t.Errorf("ComputeCommission(%d, %d): negative split %d/%d", amount, rate, fee, earnings)
			}
		}
	}
}

func TestComputeCommissionZeroAmountAndZeroRate(t *testing.T) {
	if fee, earnings := ComputeCommission(0, 1000); fee != 0 || earnings != 0 {
		t.Fatalf("zero amount: got %d/%d", fee, earnings)
	}
	// Zero rate: the professional keeps the full quoted amount.
	if fee, earnings := ComputeCommission(5000, 0); fee != 0 || earnings != 5000 {
		t.Fatalf("zero rate: got %d/%d", fee, earnings)
	}
}

func TestNewCommissionRecordsAppliedRate(t *testing.T) {
	c := NewCommission(100000, 1000)
	if c == nil {
		t.Fatal("expected a ledger entry")
	}
	if c.RateBps != 1000 {
		t.Fatalf("expected recorded rate 1000 bps, got %d", c.RateBps)
	}
	if c.PlatformFee != 10000 || c.ProfessionalEarnings != 90000 {
		t.Fatalf("unexpected split %d/%d", c.PlatformFee, c.ProfessionalEarnings)
	}
	if c.PaymentStatus != PaymentPending {
		t.Fatalf("expected Pending payment status, got %s", c.PaymentStatus)
	}
}

func TestNewCommissionNilWhenNoFeeOwed(t *testing.T) {
	if c := NewCommission(0, 1000); c != nil {
		t.Fatalf("zero amount should not create a ledger entry, got %+v", c)
	}
	if c := NewCommission(100000, 0); c != nil {
		t.Fatalf("zero rate should not create a ledger entry, got %+v", c)
	}
	// Fee truncates to zero for tiny amounts.
	if c := NewCommission(5, 1000); c != nil {
		t.Fatalf("sub-unit fee should not create a ledger entry, got %+v", c)
	}
}
