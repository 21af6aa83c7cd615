package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"collegeevents/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

// Create inserts a registration. Duplicate emails for the same event are allowed.
// An unknown or malformed event id yields domain.ErrNotFound.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, student_name, student_email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.Name, reg.Email).
		Scan(&reg.ID, &reg.CreatedAt)
	if hasCode(err, codeForeignKeyViolation, codeInvalidTextRepresentation) {
		return fmt.Errorf("event %s: %w", reg.EventID, domain.ErrNotFound)
	}
	return err
}
