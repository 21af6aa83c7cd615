package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"collegeevents/internal/adapters/calendar"
	"collegeevents/internal/catalog"
	"collegeevents/internal/delivery/http/helpers"
	"collegeevents/internal/delivery/http/middleware"
	"collegeevents/internal/domain"
	"collegeevents/internal/eventtime"
	"collegeevents/internal/notify"
	"collegeevents/internal/submission"

	"github.com/gabriel-vasile/mimetype"
)

// multipartOverhead is the allowance for text fields on top of the poster size.
const multipartOverhead = 1 << 20

// EventListSuccessResponse is the success response envelope for GET /events (200).
type EventListSuccessResponse struct {
	Data    []*domain.Event   `json:"data"`
	Error   *helpers.APIError `json:"error"`
	Notices []domain.Notice   `json:"notices,omitempty"`
}

// EventDetail is an event with its display date and the time left until it starts.
// Countdown is null once the event has started.
type EventDetail struct {
	*domain.Event
	FormattedDate string               `json:"formatted_date"`
	Countdown     *eventtime.Countdown `json:"countdown"`
}

// EventDetailSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type EventDetailSuccessResponse struct {
	Data  EventDetail       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data    *domain.Event     `json:"data"`
	Error   *helpers.APIError `json:"error"`
	Notices []domain.Notice   `json:"notices,omitempty"`
}

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	Cache          *catalog.Cache
	Clock          eventtime.Clock
	RotationPeriod time.Duration
	// Location is the zone event times of day are read in.
	Location *time.Location

	mu sync.Mutex
	// inFlight holds each requester's outstanding submission.
	inFlight map[string]*submission.Form
}

func NewEventController(logger *slog.Logger, svc domain.EventService, cache *catalog.Cache, clock eventtime.Clock) *EventController {
	return &EventController{
		Logger:         logger,
		Service:        svc,
		Cache:          cache,
		Clock:          clock,
		RotationPeriod: catalog.DefaultRotationPeriod,
		Location:       time.UTC,
		inFlight:       make(map[string]*submission.Form),
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns all events filtered by search text and category, then sorted. Search matches title, description and organizer case-insensitively.
// @Tags events
// @Produce json
// @Param q query string false "Search text"
// @Param category query string false "Category or All" default(All)
// @Param sort query string false "dateDesc, dateAsc, titleAsc or titleDesc" default(dateDesc)
// @Success 200 {object} controllers.EventListSuccessResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}
	if query.Sort == "" {
		query.Sort = catalog.DefaultSort
	}
	events := catalog.Apply(c.Cache.Events(r.Context()), query)
	helpers.WriteJSONSuccess(w, http.StatusOK, events, notify.Drain(r.Context())...)
}

// ListCategories godoc
// @Summary List categories in use
// @Description Returns "All" followed by each distinct category of the loaded events, in first-seen order.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of strings"
// @Router /events/categories [get]
func (c *EventController) ListCategories(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, catalog.Categories(c.Cache.Events(r.Context())), notify.Drain(r.Context())...)
}

// ListFeatured godoc
// @Summary List featured events
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse
// @Router /events/featured [get]
func (c *EventController) ListFeatured(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, catalog.Featured(c.Cache.Events(r.Context())), notify.Drain(r.Context())...)
}

// StreamFeatured godoc
// @Summary Stream the featured carousel
// @Description Server-sent events. Emits a "featured" event with the current featured event immediately, then advances round-robin every 5 seconds until the client disconnects. Emits a single "empty" event when nothing is featured.
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /events/featured/stream [get]
func (c *EventController) StreamFeatured(w http.ResponseWriter, r *http.Request) {
	rot := catalog.NewRotator(c.Cache.Events(r.Context()))
	sse := helpers.NewSSEWriter(w)
	if rot.Len() == 0 {
		_ = sse.Send("empty", nil)
		return
	}
	rot.Run(r.Context(), c.Clock, c.RotationPeriod, func(e *domain.Event) {
		if err := sse.Send("featured", e); err != nil {
			c.Logger.DebugContext(r.Context(), "featured stream write failed", "err", err)
		}
	})
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its formatted date and the countdown to its start.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := c.loadEvent(w, r)
	if !ok {
		return
	}
	start := eventtime.EventStart(event.Date, event.Time, c.Location)
	helpers.WriteJSONSuccess(w, http.StatusOK, EventDetail{
		Event:         event,
		FormattedDate: eventtime.FormatDate(event.Date),
		Countdown:     eventtime.ComputeCountdown(start, c.Clock.Now()),
	})
}

// StreamCountdown godoc
// @Summary Stream the countdown to an event
// @Description Server-sent events. Emits a "countdown" event every second with days, hours, minutes and seconds left. Emits data null and closes once the event has started.
// @Tags events
// @Produce text/event-stream
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {string} string "event stream"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/countdown [get]
func (c *EventController) StreamCountdown(w http.ResponseWriter, r *http.Request) {
	event, ok := c.loadEvent(w, r)
	if !ok {
		return
	}
	sse := helpers.NewSSEWriter(w)
	target := eventtime.EventStart(event.Date, event.Time, c.Location)
	eventtime.WatchCountdown(r.Context(), c.Clock, target, func(cd *eventtime.Countdown) {
		if err := sse.Send("countdown", cd); err != nil {
			c.Logger.DebugContext(r.Context(), "countdown stream write failed", "err", err)
		}
	})
}

// ExportCalendar godoc
// @Summary Download an event as iCalendar
// @Tags events
// @Produce text/calendar
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/ics [get]
func (c *EventController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	event, ok := c.loadEvent(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%s.ics"`, event.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, calendar.EventICS(event, c.Location, c.Clock.Now()))
}

func (c *EventController) loadEvent(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return nil, false
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return nil, false
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load event")
		return nil, false
	}
	return event, true
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admin only. Multipart form with the event fields and a poster image (image/*, at most 5MB). Title, date (YYYY-MM-DD) and venue are required; time defaults to 12:00 and category to General.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param time formData string false "Time of day (HH:MM)" default(12:00)
// @Param venue formData string true "Venue"
// @Param category formData string false "Category" default(General)
// @Param organizer formData string false "Organizer"
// @Param description formData string false "Description"
// @Param registration_link formData string false "External registration URL"
// @Param featured formData boolean false "Show in the featured carousel"
// @Param image formData file true "Poster image"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (an earlier submission from the same user is still running)"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	form := submission.New(c.Clock.Now)
	if err := c.claim(userID, form); err != nil {
		c.writeSubmitError(w, r, err)
		return
	}
	defer c.release(userID, form)

	r.Body = http.MaxBytesReader(w, r.Body, submission.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(submission.MaxImageSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, domain.ErrImageTooLarge.Error())
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form.OnCreated(func(*domain.Event) { c.Cache.Invalidate() })

	for _, field := range submission.Fields {
		values, present := r.MultipartForm.Value[field]
		if !present || len(values) == 0 {
			continue
		}
		if err := form.Set(field, values[0]); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
	}
	if v := r.FormValue("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "featured must be a boolean")
			return
		}
		form.SetFeatured(featured)
	}

	img, err := readPoster(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	if img != nil {
		if err := form.AttachImage(img, submission.SourceDrop); err != nil {
			c.writeSubmitError(w, r, err)
			return
		}
	}

	event, err := form.Submit(r.Context(), c.Service, userID)
	if err != nil {
		c.writeSubmitError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event, notify.Drain(r.Context())...)
}

// claim records form as userID's outstanding submission. A requester gets
// ErrSubmitInProgress until their earlier submission has finished.
func (c *EventController) claim(userID string, form *submission.Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight == nil {
		c.inFlight = make(map[string]*submission.Form)
	}
	if _, busy := c.inFlight[userID]; busy {
		return domain.ErrSubmitInProgress
	}
	c.inFlight[userID] = form
	return nil
}

func (c *EventController) release(userID string, form *submission.Form) {
	c.mu.Lock()
	if c.inFlight[userID] == form {
		delete(c.inFlight, userID)
	}
	c.mu.Unlock()
}

// readPoster returns the uploaded "image" part with its sniffed content type, or nil when absent.
func readPoster(r *http.Request) (*domain.Image, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, submission.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	size := header.Size
	if n := int64(len(data)); n > size {
		size = n
	}
	return &domain.Image{
		Filename:    header.Filename,
		ContentType: mimetype.Detect(data).String(),
		Size:        size,
		Data:        data,
	}, nil
}

func (c *EventController) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	notices := notify.Drain(r.Context())
	switch {
	case errors.Is(err, domain.ErrImageTooLarge):
		helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodePayloadTooLarge, err.Error(), notices...)
	case errors.Is(err, domain.ErrPosterRequired),
		errors.Is(err, domain.ErrRequiredFields),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrNotAnImage),
		errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error(), notices...)
	case errors.Is(err, domain.ErrSubmitInProgress):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error(), notices...)
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to create event", notices...)
	}
}
