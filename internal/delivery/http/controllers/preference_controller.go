package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"collegeevents/internal/delivery/http/helpers"
	"collegeevents/internal/delivery/http/middleware"
	"collegeevents/internal/domain"
	"collegeevents/internal/notify"
	"collegeevents/internal/preferences"
)

// prefersColorSchemeHeader is the client hint carrying the browser's system theme.
const prefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

// BookmarkRequest is the request body for POST /me/bookmarks.
type BookmarkRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (b BookmarkRequest) Validate() []string {
	if strings.TrimSpace(b.EventID) == "" {
		return []string{"event_id is required"}
	}
	return nil
}

// BookmarkResponse reports whether the event was newly bookmarked and the full list.
type BookmarkResponse struct {
	Added    bool     `json:"added"`
	EventIDs []string `json:"event_ids"`
}

// ThemeRequest is the request body for PUT /me/theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// Validate implements Validator.
func (t ThemeRequest) Validate() []string {
	if !domain.Theme(t.Theme).Valid() {
		return []string{`theme must be "light" or "dark"`}
	}
	return nil
}

// ThemeResponse is the response body for theme endpoints.
type ThemeResponse struct {
	Theme domain.Theme `json:"theme"`
}

type PreferenceController struct {
	Logger    *slog.Logger
	Bookmarks *preferences.Bookmarks
	Themes    *preferences.Themes
	Notifier  domain.Notifier
}

func NewPreferenceController(logger *slog.Logger, bookmarks *preferences.Bookmarks, themes *preferences.Themes, notifier domain.Notifier) *PreferenceController {
	return &PreferenceController{
		Logger:    logger,
		Bookmarks: bookmarks,
		Themes:    themes,
		Notifier:  notifier,
	}
}

func (c *PreferenceController) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// ListBookmarks godoc
// @Summary List bookmarked events
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of event ids"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/bookmarks [get]
func (c *PreferenceController) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	owner, ok := c.owner(w, r)
	if !ok {
		return
	}
	ids, err := c.Bookmarks.List(r.Context(), owner)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load bookmarks")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ids)
}

// AddBookmark godoc
// @Summary Bookmark an event
// @Description Adds the event to the caller's bookmarks. Bookmarking twice is reported with an "Event already bookmarked" notice and added=false.
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookmarkRequest true "Event to bookmark"
// @Success 200 {object} helpers.APIResponse "already bookmarked"
// @Success 201 {object} helpers.APIResponse "bookmarked"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/bookmarks [post]
func (c *PreferenceController) AddBookmark(w http.ResponseWriter, r *http.Request) {
	owner, ok := c.owner(w, r)
	if !ok {
		return
	}
	var req BookmarkRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	added, err := c.Bookmarks.Add(ctx, owner, strings.TrimSpace(req.EventID))
	if err != nil {
		c.Logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		c.Notifier.Notify(ctx, domain.Notice{Level: domain.NoticeError, Message: "Failed to bookmark event"})
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to bookmark event", notify.Drain(ctx)...)
		return
	}
	status := http.StatusCreated
	if added {
		c.Notifier.Notify(ctx, domain.Notice{Level: domain.NoticeSuccess, Message: "Event bookmarked"})
	} else {
		status = http.StatusOK
		c.Notifier.Notify(ctx, domain.Notice{Level: domain.NoticeInfo, Message: "Event already bookmarked"})
	}
	ids, err := c.Bookmarks.List(ctx, owner)
	if err != nil {
		c.Logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load bookmarks", notify.Drain(ctx)...)
		return
	}
	helpers.WriteJSONSuccess(w, status, BookmarkResponse{Added: added, EventIDs: ids}, notify.Drain(ctx)...)
}

func systemPrefersDark(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(prefersColorSchemeHeader)), "dark")
}

// GetTheme godoc
// @Summary Get the caller's theme
// @Description Returns the stored theme, or the browser's system preference (Sec-CH-Prefers-Color-Scheme) when none is stored.
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Param Sec-CH-Prefers-Color-Scheme header string false "light or dark"
// @Success 200 {object} helpers.APIResponse "data contains theme"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/theme [get]
func (c *PreferenceController) GetTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := c.owner(w, r)
	if !ok {
		return
	}
	w.Header().Set("Accept-CH", prefersColorSchemeHeader)
	theme, err := c.Themes.Get(r.Context(), owner, systemPrefersDark(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to load theme")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ThemeResponse{Theme: theme})
}

// SetTheme godoc
// @Summary Set the caller's theme
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ThemeRequest true "light or dark"
// @Success 200 {object} helpers.APIResponse "data contains theme"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/theme [put]
func (c *PreferenceController) SetTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := c.owner(w, r)
	if !ok {
		return
	}
	var req ThemeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	theme := domain.Theme(req.Theme)
	if err := c.Themes.Set(r.Context(), owner, theme); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to save theme")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ThemeResponse{Theme: theme})
}

// ToggleTheme godoc
// @Summary Toggle between light and dark
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Param Sec-CH-Prefers-Color-Scheme header string false "light or dark"
// @Success 200 {object} helpers.APIResponse "data contains the new theme"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /me/theme/toggle [post]
func (c *PreferenceController) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	owner, ok := c.owner(w, r)
	if !ok {
		return
	}
	theme, err := c.Themes.Toggle(r.Context(), owner, systemPrefersDark(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to toggle theme")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ThemeResponse{Theme: theme})
}
