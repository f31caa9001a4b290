package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/pws-uploader/internal/api/http"
	"github.com/i474232898/pws-uploader/internal/config"
	"github.com/i474232898/pws-uploader/internal/logging"
	"github.com/i474232898/pws-uploader/internal/wunderground"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	appLogger := logging.New(cfg)

	// Shared HTTP client for outbound uploads.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	uploader := wunderground.NewUploader(
		wunderground.WithEndpoint(cfg.Endpoint),
		wunderground.WithHTTPClient(httpClient),
		wunderground.WithLogger(appLogger),
	)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "pws-relay",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10*time.Second + cfg.HTTPTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New(logger.Config{Output: appLogger.Writer()}))
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "pws-relay",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, uploader)

	go func() {
		appLogger.WithField("port", cfg.Port).Info("relay listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLogger.WithError(err).Warn("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("error during shutdown")
	}
}
