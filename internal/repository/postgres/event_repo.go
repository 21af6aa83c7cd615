package postgres

import (
	"context"
	"database/sql"
	"errors"

	"collegeevents/internal/domain"
)

const eventColumns = `id, title, description, date, time, venue, category, organizer, registration_link, image_url, featured, created_by, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, time, venue, category, organizer, registration_link, image_url, featured, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	var createdBy sql.NullString
	if e.CreatedBy != "" {
		createdBy = sql.NullString{String: e.CreatedBy, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, e.Time, e.Venue, string(e.Category), e.Organizer,
		e.RegistrationLink, e.ImageURL, e.Featured, createdBy,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		// A malformed id cannot name any event.
		if errors.Is(err, sql.ErrNoRows) || hasCode(err, codeInvalidTextRepresentation) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var category string
	var linkNull, createdByNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Venue, &category, &e.Organizer,
		&linkNull, &e.ImageURL, &e.Featured, &createdByNull, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	if linkNull.Valid {
		e.RegistrationLink = &linkNull.String
	}
	if createdByNull.Valid {
		e.CreatedBy = createdByNull.String
	}
	return e, nil
}
