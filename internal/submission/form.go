// Package submission implements the event creation form: field edits, poster
// attachment, submit-time validation and the single outstanding submit rule.
package submission

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"collegeevents/internal/domain"
)

// MaxImageSize is the poster size ceiling enforced at attachment time.
const MaxImageSize = 5 << 20

// State is the workflow state of a Form.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source is how an image was attached.
type Source int

const (
	// SourcePicker relies on the client's file filter; only size is checked.
	SourcePicker Source = iota
	// SourceDrop accepts only image/* content types.
	SourceDrop
)

// Field names accepted by Set. They match the multipart form keys.
const (
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldDate             = "date"
	FieldTime             = "time"
	FieldVenue            = "venue"
	FieldCategory         = "category"
	FieldOrganizer        = "organizer"
	FieldRegistrationLink = "registration_link"
)

// Fields lists every text field in form order.
var Fields = []string{
	FieldTitle, FieldDescription, FieldDate, FieldTime, FieldVenue,
	FieldCategory, FieldOrganizer, FieldRegistrationLink,
}

// Creator persists a validated form. The event service implements it.
type Creator interface {
	Create(ctx context.Context, form *domain.EventFormData, requesterID string) (*domain.Event, error)
}

// Form holds an in-progress event form.
type Form struct {
	now func() time.Time

	mu        sync.Mutex
	state     State
	data      domain.EventFormData
	onCreated []func(*domain.Event)
}

// New returns an empty form with defaults taken from now.
func New(now func() time.Time) *Form {
	if now == nil {
		now = time.Now
	}
	return &Form{now: now, data: domain.NewEventFormData(now())}
}

// OnCreated registers a hook run after each successful submit.
func (f *Form) OnCreated(fn func(*domain.Event)) {
	f.mu.Lock()
	f.onCreated = append(f.onCreated, fn)
	f.mu.Unlock()
}

// State returns the current workflow state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Data returns a copy of the current form contents.
func (f *Form) Data() domain.EventFormData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Set updates one text field. Values are stored as given; required fields are checked on Submit.
// Only a malformed date or an unknown field name is rejected here.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldTitle:
		f.data.Title = value
	case FieldDescription:
		f.data.Description = value
	case FieldDate:
		value = strings.TrimSpace(value)
		if value == "" {
			f.data.Date = time.Time{}
			return nil
		}
		d, err := time.Parse(domain.DateLayout, value)
		if err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f.data.Date = d
	case FieldTime:
		f.data.Time = value
	case FieldVenue:
		f.data.Venue = value
	case FieldCategory:
		f.data.Category = domain.Category(value)
	case FieldOrganizer:
		f.data.Organizer = value
	case FieldRegistrationLink:
		f.data.RegistrationLink = value
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidInput, field)
	}
	return nil
}

// SetFeatured toggles the featured flag.
func (f *Form) SetFeatured(featured bool) {
	f.mu.Lock()
	f.data.Featured = featured
	f.mu.Unlock()
}

// AttachImage sets the poster. Images over MaxImageSize are rejected for every source;
// dropped files must also carry an image/* content type. A rejected image leaves the
// previous attachment in place.
func (f *Form) AttachImage(img *domain.Image, src Source) error {
	if img == nil {
		return domain.ErrPosterRequired
	}
	if src == SourceDrop && !strings.HasPrefix(img.ContentType, "image/") {
		return domain.ErrNotAnImage
	}
	if img.Size > MaxImageSize || int64(len(img.Data)) > MaxImageSize {
		return domain.ErrImageTooLarge
	}
	f.mu.Lock()
	f.data.Image = img
	f.mu.Unlock()
	return nil
}

// RemoveImage clears the poster.
func (f *Form) RemoveImage() {
	f.mu.Lock()
	f.data.Image = nil
	f.mu.Unlock()
}

// Submit validates the form and hands it to creator. Validation failures never reach
// creator. A second Submit while one is outstanding fails with ErrSubmitInProgress.
// On success the OnCreated hooks run and the form resets; on failure fields are kept.
func (f *Form) Submit(ctx context.Context, creator Creator, requesterID string) (*domain.Event, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, domain.ErrSubmitInProgress
	}
	f.state = StateValidating
	if err := f.data.Validate(); err != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateSubmitting
	data := f.data
	f.mu.Unlock()

	event, err := creator.Create(ctx, &data, requesterID)

	f.mu.Lock()
	if err != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return nil, err
	}
	f.data = domain.NewEventFormData(f.now())
	f.state = StateEditing
	hooks := make([]func(*domain.Event), len(f.onCreated))
	copy(hooks, f.onCreated)
	f.mu.Unlock()

	for _, hook := range hooks {
		hook(event)
	}
	return event, nil
}
