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

	"budgeteer/internal/config"
	"budgeteer/internal/database"
	"budgeteer/internal/events"
	"budgeteer/internal/logger"
	"budgeteer/internal/middleware"
	"budgeteer/internal/server"
	"budgeteer/internal/validator"

	_ "budgeteer/internal/docs" // Import swagger docs
)

// @title           Budgeteer API
// @version         1.0
// @description     Budgeteer tracks budget periods, incomes and expenses, and reports yearly, overall and year-range metrics.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Env, cfg.Server.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	// Create database manager
	dbManager, err := database.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := events.New(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return fmt.Errorf("failed to connect activity publisher: %w", err)
	}
	defer publisher.Close()

	validator.Register()

	jwt := middleware.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationDur)
	h := server.NewHandlers(dbManager.DB(), jwt, server.Options{
		BcryptCost: cfg.Auth.BcryptCost,
		Location:   cfg.Metrics.Location,
		Publisher:  publisher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.NewRouter(h, jwt),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	// Graceful shutdown handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Budgeteer API on port %s", cfg.Server.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
