package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"oficios_backend/internal/requests/domain"
)

const requestColumns = `id, customer_id, title, description, contact_phone, service_category,
	status, assigned_professional_id, quoted_amount, quote_currency, quote_notes, quoted_at,
	commission_rate_bps, platform_fee, professional_earnings, payment_status,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new requests repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a request by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Request, error) {
	query := `SELECT ` + requestColumns + ` FROM oficios_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, domain.ErrRequestNotFound()
		}
		return Request{}, fmt.Errorf("get request by id: %w", err)
	}
	return req, nil
}

// ListOpen retrieves unclaimed Submitted requests, newest first.
func (r *Repo) ListOpen(ctx context.Context, limit, offset int) ([]Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM oficios_requests
		WHERE status = $1 AND assigned_professional_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, domain.StatusSubmitted, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list open requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListByProfessional retrieves requests assigned to a professional.
func (r *Repo) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM oficios_requests
		WHERE assigned_professional_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list requests by professional: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListByCustomer retrieves requests submitted by a customer.
func (r *Repo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM oficios_requests
		WHERE customer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list requests by customer: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// ListWithFilters retrieves requests with an optional status filter and
// pagination, for the admin listing.
func (r *Repo) ListWithFilters(ctx context.Context, params ListParams) ([]Request, int, error) {
	var statusParam interface{}
	if params.Status != nil {
		statusParam = string(*params.Status)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM oficios_requests
		WHERE ($1::text IS NULL OR status = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, statusParam).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := `
		SELECT ` + requestColumns + `
		FROM oficios_requests
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, statusParam, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	items, err := scanRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create inserts a new Submitted request.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Request, error) {
	query := `
		INSERT INTO oficios_requests (customer_id, title, description, contact_phone, service_category, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query,
		params.CustomerID, params.Title, params.Description, params.ContactPhone,
		params.ServiceCategory, domain.StatusSubmitted,
	))
	if err != nil {
		return Request{}, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// Claim assigns an unclaimed Submitted request to a professional in one
// conditional write. Losing the race means zero rows matched, never a
// double assignment.
func (r *Repo) Claim(ctx context.Context, id, professionalID uuid.UUID) (bool, error) {
	query := `
		UPDATE oficios_requests
		SET assigned_professional_id = $2, status = $3, updated_at = now()
		WHERE id = $1 AND assigned_professional_id IS NULL AND status = $4`

	result, err := r.pool.Exec(ctx, query, id, professionalID, domain.StatusUnderReview, domain.StatusSubmitted)
	if err != nil {
		return false, fmt.Errorf("claim request: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// UpdateStatus applies a conditional status change. The WHERE clause pins the
// expected current status so concurrent writers cannot interleave.
func (r *Repo) UpdateStatus(ctx context.Context, change StatusChange) (bool, error) {
	sets := []string{"status = $2", "updated_at = now()"}
	args := []interface{}{change.ID, change.To}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if change.SetQuote != nil {
		sets = append(sets,
			"quoted_amount = "+next(change.SetQuote.Amount),
			"quote_currency = "+next(change.SetQuote.Currency),
			"quote_notes = "+next(change.SetQuote.Notes),
			"quoted_at = now()",
		)
	}
	if change.ClearQuote {
		sets = append(sets,
			"quoted_amount = NULL", "quote_currency = NULL",
			"quote_notes = NULL", "quoted_at = NULL",
		)
	}
	if change.SetCommission != nil {
		sets = append(sets,
			"commission_rate_bps = "+next(change.SetCommission.RateBps),
			"platform_fee = "+next(change.SetCommission.PlatformFee),
			"professional_earnings = "+next(change.SetCommission.ProfessionalEarnings),
			"payment_status = "+next(string(change.SetCommission.PaymentStatus)),
		)
	}
	if change.ClearCommission {
		sets = append(sets,
			"commission_rate_bps = NULL", "platform_fee = NULL",
			"professional_earnings = NULL", "payment_status = NULL",
		)
	}

	query := fmt.Sprintf(
		"UPDATE oficios_requests SET %s WHERE id = $1 AND status = %s",
		strings.Join(sets, ", "), next(change.From),
	)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.CustomerID, &req.Title, &req.Description, &req.ContactPhone,
		&req.ServiceCategory, &req.Status, &req.AssignedProfessionalID,
		&req.QuotedAmount, &req.QuoteCurrency, &req.QuoteNotes, &req.QuotedAt,
		&req.CommissionRateBps, &req.PlatformFee, &req.ProfessionalEarnings, &req.PaymentStatus,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func scanRequests(rows pgx.Rows) ([]Request, error) {
	var results []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		results = append(results, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return results, nil
}
