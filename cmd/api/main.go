// Command api serves the college events HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collegeevents/config"
	_ "collegeevents/docs"
	"collegeevents/internal/adapters/auth"
	"collegeevents/internal/adapters/email"
	"collegeevents/internal/adapters/storage"
	"collegeevents/internal/catalog"
	delivery "collegeevents/internal/delivery/http"
	"collegeevents/internal/delivery/http/controllers"
	"collegeevents/internal/eventtime"
	"collegeevents/internal/notify"
	"collegeevents/internal/preferences"
	"collegeevents/internal/repository/postgres"
	"collegeevents/internal/services"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 15 * time.Second

// @title College Events API
// @version 1.0
// @description Event listings, poster uploads, registrations and visitor preferences for a college campus.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	preferenceStore := postgres.NewPreferenceStore(db)

	store, err := storage.NewObjectStore(cfg.Storage, logger)
	if err != nil {
		return err
	}

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Storage.AWSAccessKeyID,
			SecretAccessKey:    cfg.Storage.AWSSecretKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	notifier := notify.NewNotifier(logger)
	eventService := services.NewEventService(eventRepo, registrationRepo, store, emailService, notifier, logger, cfg.ContextTimeout)

	tokens := auth.NewJWT(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(auth.DefaultCost), tokens, cfg.TokenExpiry, cfg.ContextTimeout)

	cache := catalog.NewCache(eventService)
	refresher, err := catalog.ScheduleRefresh(cache, cfg.CacheRefreshCron, logger)
	if err != nil {
		return err
	}
	refresher.Start()
	defer refresher.Stop()

	eventController := controllers.NewEventController(logger, eventService, cache, eventtime.SystemClock{})
	eventController.Location = cfg.EventLocation

	mux := delivery.NewRouter(
		eventController,
		controllers.NewRegistrationController(logger, eventService),
		controllers.NewPreferenceController(logger, preferences.NewBookmarks(preferenceStore), preferences.NewThemes(preferenceStore), notifier),
		controllers.NewAuthController(logger, authService),
		tokens,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.NewHandler(mux, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end on shutdown so open SSE streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
