package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adventcalendar/internal/calendar"
	"adventcalendar/internal/config"
	"adventcalendar/internal/database"
	"adventcalendar/internal/handlers"
	"adventcalendar/internal/logger"
	"adventcalendar/internal/progress"
	"adventcalendar/internal/repository"
	"adventcalendar/internal/security"
	"adventcalendar/internal/service"
	"adventcalendar/internal/timegate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := handlers.NewStartupStatus()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", startup.Healthz)

	// Listen before initialization so /healthz reports progress
	addr := ":" + cfg.ServerPort
	root := &switchHandler{next: mux}
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(log)(root),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	// Initialize database with config (supports sqlite, postgres, mysql)
	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()
	log.Info("database connection established", "type", cfg.DatabaseType)
	startup.CompleteStep(handlers.StepDatabase)

	startup.SetCurrentStep(handlers.StepMigrations)
	applied, err := db.RunMigrations(cfg.MigrationsPath)
	if err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	log.Info("migrations completed", "applied", len(applied))
	startup.CompleteStep(handlers.StepMigrations)

	startup.SetCurrentStep(handlers.StepCalendar)
	cal, err := calendar.Load(cfg.CalendarPath)
	if err != nil {
		log.Fatal("failed to load calendar", "error", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("invalid time zone", "error", err)
	}
	gate, err := timegate.New(cal, loc, timegate.SystemClock{})
	if err != nil {
		log.Fatal("failed to build time gate", "error", err)
	}
	log.Info("calendar loaded", "levels", len(cal.Levels), "timezone", loc.String())
	startup.CompleteStep(handlers.StepCalendar)

	startup.SetCurrentStep(handlers.StepServices)

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	game := service.NewGameService(cal, gate, playerRepo, progressRepo, log.With("component", "game"), service.GameOptions{
		Progress: progress.Options{
			PenaltyThreshold: cfg.PenaltyThreshold,
			PenaltyDuration:  cfg.PenaltyDuration,
		},
	})
	defer game.Close()

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log.With("component", "email"))
	if err != nil {
		log.Warn("email notifications disabled", "error", err)
	}
	if emailService != nil && emailService.IsEnabled() && cfg.NotifyEmail != "" {
		notifier := service.NewNotifier(cal, gate, notificationRepo, emailService, cfg.NotifyEmail, log.With("component", "notifier"))
		go notifier.Run(ctx, cfg.TimeGateInterval)
	} else {
		log.Info("level notifications off", "reason", "SES_FROM_EMAIL or NOTIFY_EMAIL not set")
	}

	tokens := security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration)
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	limiter := security.NewRateLimiter(10, time.Minute)
	go limiter.RunCleanup(ctx, time.Hour)

	// Setup routes
	api := http.NewServeMux()
	middleware := handlers.NewMiddleware(tokens, csrf, limiter, log.With("component", "middleware"))
	handlers.RegisterRoutes(api, handlers.NewGameHandler(game, tokens, csrf, log), middleware, startup)
	root.Set(api)
	startup.CompleteStep(handlers.StepServices)

	startup.MarkReady()
	log.Info("server ready", "addr", addr)

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
