package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"collegeevents/internal/delivery/http/helpers"
	"collegeevents/internal/delivery/http/middleware"
	"collegeevents/internal/domain"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeEventService is an in-memory EventService. It reports failures through notifier like the real one.
type fakeEventService struct {
	mu         sync.Mutex
	events     []*domain.Event
	fetchCalls int
	// fetchFailures is how many upcoming fetches fail.
	fetchFailures int
	createErr     error
	// When set, Create signals createStarted and waits for createRelease to close.
	createStarted chan struct{}
	createRelease chan struct{}
	registered    []string
	registerOK    bool
	notifier      domain.Notifier
}

func newFakeEventService(notifier domain.Notifier, events ...*domain.Event) *fakeEventService {
	return &fakeEventService{events: events, registerOK: true, notifier: notifier}
}

func (f *fakeEventService) FetchAll(ctx context.Context) []*domain.Event {
	events, _ := f.Fetch(ctx)
	return events
}

func (f *fakeEventService) Fetch(ctx context.Context) ([]*domain.Event, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchFailures > 0 {
		f.fetchFailures--
		f.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: "Failed to fetch events"})
		return []*domain.Event{}, false
	}
	return append([]*domain.Event(nil), f.events...), true
}

func (f *fakeEventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("get event: %w", domain.ErrNotFound)
}

func (f *fakeEventService) Create(ctx context.Context, form *domain.EventFormData, requesterID string) (*domain.Event, error) {
	if !form.Category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	if f.createStarted != nil {
		f.createStarted <- struct{}{}
		<-f.createRelease
	}
	if f.createErr != nil {
		f.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: "Failed to create event"})
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e := domain.NewEvent(form, "https://cdn.test/"+form.Image.Filename, requesterID)
	e.ID = fmt.Sprintf("ev-new-%d", len(f.events)+1)
	f.events = append([]*domain.Event{e}, f.events...)
	f.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: "Event created successfully!"})
	return e, nil
}

func (f *fakeEventService) Register(ctx context.Context, eventID, name, email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.registerOK {
		f.notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: "Failed to register for event"})
		return false
	}
	f.registered = append(f.registered, eventID+":"+email)
	return true
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleEvents() []*domain.Event {
	return []*domain.Event{
		{ID: "ev-1", Title: "Robotics Workshop", Description: "Build a bot", Date: day(2025, 3, 10), Time: "10:00", Venue: "Lab 2", Category: domain.CategoryWorkshop, Organizer: "Robotics Club", Featured: true},
		{ID: "ev-2", Title: "Annual Sports Meet", Description: "Track and field", Date: day(2025, 4, 1), Time: "08:00", Venue: "Stadium", Category: domain.CategorySports, Organizer: "Athletics", Featured: false},
		{ID: "ev-3", Title: "Cultural Night", Description: "Music and dance", Date: day(2025, 2, 20), Time: "18:30", Venue: "Auditorium", Category: domain.CategoryCultural, Organizer: "Arts Society", Featured: true},
	}
}

// withClaims returns r carrying authenticated claims for userID with roles.
func withClaims(r *http.Request, userID string, roles ...string) *http.Request {
	return r.WithContext(middleware.SetClaims(r.Context(), &domain.TokenClaims{UserID: userID, Roles: roles}))
}

// serve runs handler behind the notices middleware, as the router does.
func serve(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.Notices(handler).ServeHTTP(rec, r)
	return rec
}

// decodeEnvelope decodes the response envelope with data into dest.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var raw struct {
		Data    json.RawMessage   `json:"data"`
		Error   *helpers.APIError `json:"error"`
		Notices []domain.Notice   `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if dest != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return helpers.APIResponse{Error: raw.Error, Notices: raw.Notices}
}
