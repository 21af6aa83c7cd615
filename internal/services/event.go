package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"collegeevents/internal/domain"
	"collegeevents/internal/eventtime"

	"github.com/google/uuid"
)

const (
	msgFetchFailed    = "Failed to fetch events"
	msgCreateFailed   = "Failed to create event"
	msgCreated        = "Event created successfully!"
	msgRegisterFailed = "Failed to register for event"
	msgRegistered     = "Successfully registered for event"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	store            domain.ObjectStore
	emailService     domain.EmailService
	notifier         domain.Notifier
	logger           *slog.Logger
	newKey           func(filename string) string
	contextTimeout   time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	store domain.ObjectStore,
	emailService domain.EmailService,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		store:            store,
		emailService:     emailService,
		notifier:         notifier,
		logger:           logger,
		newKey:           objectKey,
		contextTimeout:   timeout,
	}
}

// objectKey names an uploaded poster <uuid>.<ext>, keeping the extension of the original filename.
func objectKey(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + strings.ToLower(ext)
}

func (s *eventService) FetchAll(ctx context.Context) []*domain.Event {
	events, _ := s.Fetch(ctx)
	return events
}

func (s *eventService) Fetch(ctx context.Context) ([]*domain.Event, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list events", "err", err)
		s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: msgFetchFailed})
		return []*domain.Event{}, false
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, true
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, form *domain.EventFormData, requesterID string) (*domain.Event, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if !form.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := s.newKey(form.Image.Filename)
	imageURL, err := s.store.Upload(ctx, key, form.Image)
	if err != nil {
		s.logger.ErrorContext(ctx, "upload poster", "key", key, "err", err)
		s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: msgCreateFailed})
		return nil, fmt.Errorf("upload poster: %w", err)
	}

	event := domain.NewEvent(form, imageURL, requesterID)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "insert event", "err", err)
		s.removeOrphan(ctx, key)
		s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: msgCreateFailed})
		return nil, fmt.Errorf("insert event: %w", err)
	}

	s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: msgCreated})
	return event, nil
}

// removeOrphan deletes a poster whose event row was never written. It runs even if ctx is already done.
func (s *eventService) removeOrphan(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.contextTimeout)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.ErrorContext(ctx, "orphaned poster left in storage", "key", key, "err", err)
	}
}

func (s *eventService) Register(ctx context.Context, eventID, name, email string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg := domain.NewRegistration(eventID, name, email)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		s.logger.ErrorContext(ctx, "insert registration", "event_id", eventID, "err", err)
		s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: msgRegisterFailed})
		return false
	}
	s.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: msgRegistered})
	s.sendConfirmation(ctx, reg)
	return true
}

func (s *eventService) sendConfirmation(ctx context.Context, reg *domain.Registration) {
	if s.emailService == nil || reg.Email == "" {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "event_id", reg.EventID, "err", err)
		return
	}
	data := &domain.RegistrationEmailData{
		Email:         reg.Email,
		Name:          reg.Name,
		EventTitle:    event.Title,
		EventDate:     eventtime.FormatDate(event.Date),
		EventTime:     event.Time,
		EventVenue:    event.Venue,
		EventImageURL: event.ImageURL,
	}
	if err := s.emailService.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "event_id", reg.EventID, "err", err)
	}
}
