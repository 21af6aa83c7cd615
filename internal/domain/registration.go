package domain

import (
	"context"
	"time"
)

// Registration records a person's intent to attend an event.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRegistration creates a new Registration. ID and CreatedAt are set by the repository on create.
func NewRegistration(eventID, name, email string) *Registration {
	return &Registration{
		EventID: eventID,
		Name:    name,
		Email:   email,
	}
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
}
