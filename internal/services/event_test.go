package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"collegeevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventServiceDeps struct {
	events   *fakeEventRepo
	regs     *fakeRegistrationRepo
	store    *fakeStore
	email    *fakeEmailService
	notifier *recordingNotifier
}

func newTestEventService() (*eventService, *eventServiceDeps) {
	d := &eventServiceDeps{
		events:   newFakeEventRepo(),
		regs:     &fakeRegistrationRepo{},
		store:    newFakeStore(),
		email:    &fakeEmailService{},
		notifier: &recordingNotifier{},
	}
	svc := NewEventService(d.events, d.regs, d.store, d.email, d.notifier, testLogger(), time.Second).(*eventService)
	svc.newKey = func(filename string) string { return "key-" + filename }
	return svc, d
}

func validForm() *domain.EventFormData {
	f := domain.NewEventFormData(time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC))
	f.Title = "Hackathon"
	f.Venue = "Main Hall"
	f.Category = domain.CategoryCompetition
	f.RegistrationLink = "  https://forms.example.com/x  "
	f.Image = &domain.Image{Filename: "poster.png", ContentType: "image/png", Size: 3, Data: []byte("png")}
	return &f
}

func TestObjectKey(t *testing.T) {
	k := objectKey("Poster.PNG")
	assert.True(t, strings.HasSuffix(k, ".png"), k)
	assert.Len(t, k, 36+4)
	assert.NotEqual(t, k, objectKey("Poster.PNG"))

	assert.Len(t, objectKey("noext"), 36)
}

func TestEventService_FetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		svc, d := newTestEventService()
		require.NoError(t, d.events.Create(ctx, &domain.Event{Title: "first"}))
		require.NoError(t, d.events.Create(ctx, &domain.Event{Title: "second"}))

		events := svc.FetchAll(ctx)
		require.Len(t, events, 2)
		assert.Equal(t, "second", events[0].Title)
		assert.Empty(t, d.notifier.notices)
	})

	t.Run("failure notifies and returns empty", func(t *testing.T) {
		svc, d := newTestEventService()
		d.events.listErr = errors.New("connection refused")

		events := svc.FetchAll(ctx)
		require.NotNil(t, events)
		assert.Empty(t, events)
		require.Len(t, d.notifier.notices, 1)
		assert.Equal(t, domain.NoticeError, d.notifier.notices[0].Level)
		assert.Equal(t, "Failed to fetch events", d.notifier.notices[0].Message)
	})

	t.Run("fetch reports success", func(t *testing.T) {
		svc, d := newTestEventService()
		require.NoError(t, d.events.Create(ctx, &domain.Event{Title: "only"}))

		events, ok := svc.Fetch(ctx)
		assert.True(t, ok)
		assert.Len(t, events, 1)

		d.events.listErr = errors.New("connection refused")
		events, ok = svc.Fetch(ctx)
		assert.False(t, ok)
		assert.NotNil(t, events)
		assert.Empty(t, events)
		assert.Len(t, d.notifier.notices, 1)
	})
}

func TestEventService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc, d := newTestEventService()
	require.NoError(t, d.events.Create(ctx, &domain.Event{Title: "x"}))

	e, err := svc.GetByID(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "x", e.Title)

	_, err = svc.GetByID(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, d := newTestEventService()

		e, err := svc.Create(ctx, validForm(), "admin-1")
		require.NoError(t, err)
		assert.Equal(t, "ev-1", e.ID)
		assert.Equal(t, "https://cdn.test/key-poster.png", e.ImageURL)
		assert.Equal(t, "admin-1", e.CreatedBy)
		require.NotNil(t, e.RegistrationLink)
		assert.Equal(t, "https://forms.example.com/x", *e.RegistrationLink)
		assert.Contains(t, d.store.uploaded, "key-poster.png")
		assert.Equal(t, []string{"Event created successfully!"}, d.notifier.messages())
	})

	validationCases := []struct {
		name   string
		mutate func(f *domain.EventFormData)
		want   error
	}{
		{"no image", func(f *domain.EventFormData) { f.Image = nil }, domain.ErrPosterRequired},
		{"no image beats missing title", func(f *domain.EventFormData) { f.Image = nil; f.Title = "" }, domain.ErrPosterRequired},
		{"blank title", func(f *domain.EventFormData) { f.Title = "   " }, domain.ErrRequiredFields},
		{"blank venue", func(f *domain.EventFormData) { f.Venue = "" }, domain.ErrRequiredFields},
		{"zero date", func(f *domain.EventFormData) { f.Date = time.Time{} }, domain.ErrRequiredFields},
		{"unknown category", func(f *domain.EventFormData) { f.Category = "Party" }, domain.ErrInvalidCategory},
	}
	for _, tc := range validationCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, d := newTestEventService()
			form := validForm()
			tc.mutate(form)

			_, err := svc.Create(ctx, form, "admin-1")
			require.ErrorIs(t, err, tc.want)
			assert.Empty(t, d.store.uploaded, "no upload on validation failure")
			assert.Empty(t, d.events.byID)
		})
	}

	t.Run("upload failure", func(t *testing.T) {
		svc, d := newTestEventService()
		d.store.uploadErr = errors.New("bucket gone")

		_, err := svc.Create(ctx, validForm(), "admin-1")
		require.Error(t, err)
		assert.Empty(t, d.events.byID)
		assert.Empty(t, d.store.deleted)
		assert.Equal(t, []string{"Failed to create event"}, d.notifier.messages())
	})

	t.Run("insert failure deletes uploaded poster", func(t *testing.T) {
		svc, d := newTestEventService()
		d.events.createErr = errors.New("constraint violation")

		_, err := svc.Create(ctx, validForm(), "admin-1")
		require.Error(t, err)
		assert.Equal(t, []string{"key-poster.png"}, d.store.deleted)
		assert.Empty(t, d.store.uploaded)
		assert.Equal(t, []string{"Failed to create event"}, d.notifier.messages())
	})

	t.Run("insert failure with failing delete still fails create", func(t *testing.T) {
		svc, d := newTestEventService()
		d.events.createErr = errors.New("constraint violation")
		d.store.deleteErr = errors.New("denied")

		_, err := svc.Create(ctx, validForm(), "admin-1")
		require.Error(t, err)
		assert.Equal(t, []string{"key-poster.png"}, d.store.deleted)
	})
}

func TestEventService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success sends confirmation", func(t *testing.T) {
		svc, d := newTestEventService()
		created, err := svc.Create(ctx, validForm(), "admin-1")
		require.NoError(t, err)
		d.notifier.notices = nil

		ok := svc.Register(ctx, created.ID, "Asha", "asha@college.edu")
		require.True(t, ok)
		require.Len(t, d.regs.created, 1)
		assert.Equal(t, created.ID, d.regs.created[0].EventID)
		require.Len(t, d.email.sent, 1)
		assert.Equal(t, "Hackathon", d.email.sent[0].EventTitle)
		assert.Equal(t, "Fri, Mar 14, 2025", d.email.sent[0].EventDate)
		assert.Equal(t, []string{"Successfully registered for event"}, d.notifier.messages())
	})

	t.Run("duplicates are accepted", func(t *testing.T) {
		svc, d := newTestEventService()
		assert.True(t, svc.Register(ctx, "ev-9", "A", "a@b.c"))
		assert.True(t, svc.Register(ctx, "ev-9", "A", "a@b.c"))
		assert.Len(t, d.regs.created, 2)
	})

	t.Run("email failure keeps result", func(t *testing.T) {
		svc, d := newTestEventService()
		created, err := svc.Create(ctx, validForm(), "admin-1")
		require.NoError(t, err)
		d.email.err = errors.New("ses throttled")

		assert.True(t, svc.Register(ctx, created.ID, "Asha", "asha@college.edu"))
	})

	t.Run("insert failure returns false and notifies", func(t *testing.T) {
		svc, d := newTestEventService()
		d.regs.err = errors.New("fk violation")

		assert.False(t, svc.Register(ctx, "missing", "A", "a@b.c"))
		assert.Equal(t, []string{"Failed to register for event"}, d.notifier.messages())
		assert.Empty(t, d.email.sent)
	})
}
