package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfessionalContact is the minimal contact record notifications need.
type ProfessionalContact struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// ProfessionalDirectory resolves professionals to contact details.
type ProfessionalDirectory interface {
	GetContact(ctx context.Context, professionalID uuid.UUID) (ProfessionalContact, error)
}

// PgDirectory reads professional contacts from PostgreSQL.
type PgDirectory struct {
	pool *pgxpool.Pool
}

// NewPgDirectory creates a directory over the professionals table.
func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

var _ ProfessionalDirectory = (*PgDirectory)(nil)

// ErrContactNotFound is returned when no contact record exists.
var ErrContactNotFound = errors.New("professional contact not found")

// GetContact retrieves a professional's contact details.
func (d *PgDirectory) GetContact(ctx context.Context, professionalID uuid.UUID) (ProfessionalContact, error) {
	query := `SELECT id, email, display_name FROM oficios_professionals WHERE id = $1`

	var contact ProfessionalContact
	err := d.pool.QueryRow(ctx, query, professionalID).Scan(&contact.ID, &contact.Email, &contact.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfessionalContact{}, ErrContactNotFound
		}
		return ProfessionalContact{}, fmt.Errorf("get professional contact: %w", err)
	}
	return contact, nil
}
