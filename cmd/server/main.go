// Package main wires the application together and runs the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"virtualevents/config"
	_ "virtualevents/docs"
	"virtualevents/internal/adapters/email"
	httpdelivery "virtualevents/internal/delivery/http"
	"virtualevents/internal/delivery/http/controllers"
	"virtualevents/internal/delivery/http/middleware"
	"virtualevents/internal/repository/mongodb"
	"virtualevents/internal/services"
)

// @title Virtual Event Management API
// @version 1.0
// @description REST backend for managing virtual events and registrations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongodb.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("database disconnect failed", "err", err)
		}
	}()

	db := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(connectCtx, db); err != nil {
		logger.Error("index bootstrap failed", "err", err)
		os.Exit(1)
	}

	userRepo := mongodb.NewUserRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	registrationRepo := mongodb.NewEventRegistrationRepository(db)

	tokenService := services.NewJWTTokenService(cfg.JWTSecret)
	mailer := email.NewMailer(cfg.Email, logger)
	emailService := services.NewEmailService(mailer)
	authService := services.NewAuthService(userRepo, tokenService)
	eventService := services.NewEventService(eventRepo)
	attendeeService := services.NewRegistrationService(eventRepo, registrationRepo, userRepo, emailService, logger)

	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	attendeeController := controllers.NewAttendeeController(logger, attendeeService)

	mux := httpdelivery.NewRouter(authController, eventController, attendeeController, tokenService)

	var handler http.Handler = mux
	handler = middleware.CORS([]string{"*"}, handler)
	handler = middleware.Logging(logger, handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}
}
