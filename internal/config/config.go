package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/pws-uploader/internal/wunderground"
)

type AppConfig struct {
	// Endpoint is the upload URL; defaults to the public rtupdate endpoint.
	Endpoint string

	// HTTPTimeout bounds each outbound upload (0 = no timeout).
	HTTPTimeout time.Duration

	LogLevel  logrus.Level
	LogFormat string // "text" or "json"

	// Station credentials used by the CLI when no flags are given.
	StationID  string
	StationKey string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Endpoint = getenvDefault("WU_ENDPOINT", wunderground.DefaultEndpoint)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must not be negative")
	}
	cfg.HTTPTimeout = timeout

	level, err := logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", cfg.LogFormat)
	}

	cfg.StationID = os.Getenv("WU_STATION_ID")
	cfg.StationKey = os.Getenv("WU_STATION_KEY")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
