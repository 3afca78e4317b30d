package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"oficios_backend/internal/requests/domain"
	"oficios_backend/platform/apperr"
)

// Repo implements the Repository interface with PostgreSQL. The ledger lives
// on the requests table; this repository only touches the commission columns.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new commission ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetPendingSummary aggregates a professional's pending commissions.
func (r *Repo) GetPendingSummary(ctx context.Context, professionalID uuid.UUID) (PendingSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(platform_fee), 0)
		FROM oficios_requests
		WHERE assigned_professional_id = $1 AND payment_status = $2`

	summary := PendingSummary{ProfessionalID: professionalID}
	err := r.pool.QueryRow(ctx, query, professionalID, domain.PaymentPending).
		Scan(&summary.PendingCount, &summary.TotalFees)
	if err != nil {
		return PendingSummary{}, fmt.Errorf("get pending summary: %w", err)
	}
	return summary, nil
}

// ListPending retrieves a professional's pending ledger entries, oldest first.
func (r *Repo) ListPending(ctx context.Context, professionalID uuid.UUID) ([]LedgerEntry, error) {
	query := `
		SELECT id, assigned_professional_id, quoted_amount, commission_rate_bps,
			platform_fee, professional_earnings, payment_status, updated_at
		FROM oficios_requests
		WHERE assigned_professional_id = $1 AND payment_status = $2
		ORDER BY updated_at ASC`

	rows, err := r.pool.Query(ctx, query, professionalID, domain.PaymentPending)
	if err != nil {
		return nil, fmt.Errorf("list pending commissions: %w", err)
	}
	defer rows.Close()

	var results []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(
			&e.RequestID, &e.ProfessionalID, &e.QuotedAmount, &e.RateBps,
			&e.PlatformFee, &e.ProfessionalEarnings, &e.PaymentStatus, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return results, nil
}

// ListPendingIDs returns up to limit pending entry IDs in stable order.
func (r *Repo) ListPendingIDs(ctx context.Context, professionalID uuid.UUID, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM oficios_requests
		WHERE assigned_professional_id = $1 AND payment_status = $2
		ORDER BY updated_at ASC, id ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, professionalID, domain.PaymentPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending commission ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan commission id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commission ids: %w", err)
	}
	return ids, nil
}

// SettleChunk marks the given entries Paid inside one transaction. Entries
// that flipped since listing are skipped by the status condition.
func (r *Repo) SettleChunk(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin settle chunk: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	result, err := tx.Exec(ctx, `
		UPDATE oficios_requests
		SET payment_status = $1, updated_at = now()
		WHERE id = ANY($2) AND payment_status = $3`,
		domain.PaymentPaid, ids, domain.PaymentPending,
	)
	if err != nil {
		return 0, fmt.Errorf("settle chunk: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit settle chunk: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// SetPaymentStatus flips a single entry after checking eligibility under a
// row lock. Requests without a billable commission are rejected.
func (r *Repo) SetPaymentStatus(ctx context.Context, requestID uuid.UUID, status domain.PaymentStatus) (LedgerEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("begin set payment status: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Commission columns are nullable outside the finished states, so the
	// eligibility check happens after a nullable scan.
	var (
		entry          LedgerEntry
		professionalID *uuid.UUID
		quotedAmount   *int64
		rateBps        *int
		platformFee    *int64
		earnings       *int64
		paymentStatus  *domain.PaymentStatus
	)
	err = tx.QueryRow(ctx, `
		SELECT id, assigned_professional_id, quoted_amount, commission_rate_bps,
			platform_fee, professional_earnings, payment_status, updated_at
		FROM oficios_requests
		WHERE id = $1
		FOR UPDATE`,
		requestID,
	).Scan(
		&entry.RequestID, &professionalID, &quotedAmount, &rateBps,
		&platformFee, &earnings, &paymentStatus, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = apperr.NotFound("request not found")
			return LedgerEntry{}, err
		}
		return LedgerEntry{}, fmt.Errorf("load ledger entry: %w", err)
	}

	if paymentStatus == nil || platformFee == nil || *platformFee <= 0 {
		err = apperr.Validation("request carries no billable commission")
		return LedgerEntry{}, err
	}
	if professionalID != nil {
		entry.ProfessionalID = *professionalID
	}
	if quotedAmount != nil {
		entry.QuotedAmount = *quotedAmount
	}
	if rateBps != nil {
		entry.RateBps = *rateBps
	}
	if earnings != nil {
		entry.ProfessionalEarnings = *earnings
	}
	entry.PlatformFee = *platformFee
	entry.PaymentStatus = *paymentStatus

	if _, err = tx.Exec(ctx, `
		UPDATE oficios_requests
		SET payment_status = $2, updated_at = now()
		WHERE id = $1`,
		requestID, status,
	); err != nil {
		return LedgerEntry{}, fmt.Errorf("set payment status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return LedgerEntry{}, fmt.Errorf("commit set payment status: %w", err)
	}
	return entry, nil
}
