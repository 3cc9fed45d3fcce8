package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lockgate/internal/config"
	httpserver "lockgate/internal/http"
	"lockgate/pkg/lock"
	"lockgate/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := repository.Open(repository.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	logger.Info("connected to database", "driver", cfg.DBDriver)

	// Initialize repositories
	lockRecordsRepo := repository.NewLockRecordsRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	grantsRepo := repository.NewGrantsRepository(db)

	// Initialize services
	policyService := lock.NewPolicyService(settingsRepo)
	evaluator := lock.NewEvaluator(lockRecordsRepo, policyService)
	adminService := lock.NewAdminService(logger, lockRecordsRepo)
	reactivationService := lock.NewReactivationService(lock.ReactivationConfig{
		JWTSecret: []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		TokenTTL:  cfg.ReactivationTTL,
	}, grantsRepo, lockRecordsRepo)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:              logger,
		Evaluator:           evaluator,
		AdminService:        adminService,
		ReactivationService: reactivationService,
		PolicyService:       policyService,
		JWTSecret:           []byte(cfg.JWTSecret),
		RateLimitConfig:     cfg.RateLimit,
		SecurityHeaders:     cfg.SecurityHeaders,
		MaxRequestBodySize:  cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
