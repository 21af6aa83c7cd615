package http

import (
	"log/slog"
	"net/http"

	"collegeevents/internal/delivery/http/controllers"
	"collegeevents/internal/delivery/http/middleware"
	"collegeevents/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	preferenceController *controllers.PreferenceController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/categories", eventController.ListCategories)
	mux.HandleFunc("GET /events/featured", eventController.ListFeatured)
	mux.HandleFunc("GET /events/featured/stream", eventController.StreamFeatured)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("GET /events/{eventID}/countdown", eventController.StreamCountdown)
	mux.HandleFunc("GET /events/{eventID}/ics", eventController.ExportCalendar)
	mux.HandleFunc("POST /events", requireAuth(requireAdmin(eventController.CreateEvent)))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", registrationController.Register)

	// Preferences
	mux.HandleFunc("GET /me/bookmarks", requireAuth(preferenceController.ListBookmarks))
	mux.HandleFunc("POST /me/bookmarks", requireAuth(preferenceController.AddBookmark))
	mux.HandleFunc("GET /me/theme", requireAuth(preferenceController.GetTheme))
	mux.HandleFunc("PUT /me/theme", requireAuth(preferenceController.SetTheme))
	mux.HandleFunc("POST /me/theme/toggle", requireAuth(preferenceController.ToggleTheme))

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the request-scoped middleware chain:
// logging outermost, then CORS, then the notice collector.
func NewHandler(mux http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, middleware.Notices(mux)))
}
