package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/auth"
	"github.com/mostafayousef44200444-rgb/backend/internal/config"
	"github.com/mostafayousef44200444-rgb/backend/internal/database"
	"github.com/mostafayousef44200444-rgb/backend/internal/handler"
	"github.com/mostafayousef44200444-rgb/backend/internal/repository"
	"github.com/mostafayousef44200444-rgb/backend/internal/router"
	"github.com/mostafayousef44200444-rgb/backend/internal/service"
	"github.com/mostafayousef44200444-rgb/backend/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional, real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting coze-store API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from database")
		}
	}()

	db := client.Database(cfg.Mongo.Database)

	// Repositories
	userRepo := repository.NewUserRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure order indexes: %w", err)
	}

	// Image host
	images, err := storage.NewS3Store(ctx, cfg.Images, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(userRepo, tokens, logger)
	productService := service.NewProductService(productRepo, images, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, logger)

	// HTTP handlers and routing
	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(client, logger),
		User:    handler.NewUserHandler(userService, logger),
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
	}
	mux := router.New(tokens, handlers, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
