package domain

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"
)

// Category is one of the fixed event categories.
type Category string

const (
	CategoryGeneral     Category = "General"
	CategoryAcademic    Category = "Academic"
	CategoryCultural    Category = "Cultural"
	CategorySports      Category = "Sports"
	CategoryWorkshop    Category = "Workshop"
	CategorySeminar     Category = "Seminar"
	CategoryConference  Category = "Conference"
	CategoryCompetition Category = "Competition"
	CategoryOther       Category = "Other"
)

// CategoryAll is the filter value that matches every category. It is never stored on an event.
const CategoryAll = "All"

// Categories lists every valid category in picker order.
var Categories = []Category{
	CategoryGeneral,
	CategoryAcademic,
	CategoryCultural,
	CategorySports,
	CategoryWorkshop,
	CategorySeminar,
	CategoryConference,
	CategoryCompetition,
	CategoryOther,
}

// Valid reports whether c is a member of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DateLayout is the wire format of Event.Date.
const DateLayout = "2006-01-02"

// DefaultEventTime is the time-of-day a new form starts with.
const DefaultEventTime = "12:00"

// Event represents a listed college event
// swagger:model Event
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Venue            string    `json:"venue"`
	Category         Category  `json:"category"`
	Organizer        string    `json:"organizer"`
	RegistrationLink *string   `json:"registration_link"`
	ImageURL         string    `json:"image_url"`
	Featured         bool      `json:"featured"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Image is a poster attached to an event form before upload.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Reader returns a fresh reader over the image bytes.
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// EventFormData is the construction-time view of an Event. Image is consumed to produce ImageURL.
type EventFormData struct {
	Title            string
	Description      string
	Date             time.Time
	Time             string
	Venue            string
	Category         Category
	Organizer        string
	RegistrationLink string
	Featured         bool
	Image            *Image
}

// NewEventFormData returns an empty form with defaults: today's date, 12:00, General.
func NewEventFormData(now time.Time) EventFormData {
	y, m, d := now.Date()
	return EventFormData{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Time:     DefaultEventTime,
		Category: CategoryGeneral,
	}
}

// Validate checks the submit-time rules in order: poster first, then required fields.
func (f *EventFormData) Validate() error {
	if f.Image == nil {
		return ErrPosterRequired
	}
	if strings.TrimSpace(f.Title) == "" || f.Date.IsZero() || strings.TrimSpace(f.Venue) == "" {
		return ErrRequiredFields
	}
	return nil
}

// NewEvent builds the record to insert from a validated form. ID and CreatedAt are set by the repository.
func NewEvent(form *EventFormData, imageURL, createdBy string) *Event {
	e := &Event{
		Title:       form.Title,
		Description: form.Description,
		Date:        form.Date,
		Time:        form.Time,
		Venue:       form.Venue,
		Category:    form.Category,
		Organizer:   form.Organizer,
		ImageURL:    imageURL,
		Featured:    form.Featured,
		CreatedBy:   createdBy,
	}
	if link := strings.TrimSpace(form.RegistrationLink); link != "" {
		e.RegistrationLink = &link
	}
	return e
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns every event ordered by creation time, newest first.
	List(ctx context.Context) ([]*Event, error)
}

// ObjectStore stores poster images and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, img *Image) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// EventService is the gateway between handlers and storage for events and registrations.
// FetchAll and Register never return errors: failures become notices and empty results.
// Fetch is FetchAll that also reports whether the load succeeded.
type EventService interface {
	FetchAll(ctx context.Context) []*Event
	Fetch(ctx context.Context) (events []*Event, ok bool)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, form *EventFormData, requesterID string) (*Event, error)
	Register(ctx context.Context, eventID, name, email string) bool
}
