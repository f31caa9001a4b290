package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/pws-uploader/internal/config"
	"github.com/i474232898/pws-uploader/internal/logging"
	"github.com/i474232898/pws-uploader/internal/wunderground"
)

// Placeholder credentials for the demo invocation only.
const (
	demoStationID  = "YOUR STATION ID HERE"
	demoStationKey = "YOUR STATION KEY HERE"
	demoTimestamp  = 1579559564
)

// fieldFlags collects repeated -field name=value flags.
type fieldFlags wunderground.Observation

func (f fieldFlags) String() string {
	return fmt.Sprint(wunderground.Observation(f))
}

func (f fieldFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	f[name] = value
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg)

	fields := fieldFlags{}
	stationID := flag.String("station", firstNonEmpty(cfg.StationID, demoStationID), "station identifier")
	stationKey := flag.String("key", firstNonEmpty(cfg.StationKey, demoStationKey), "station key")
	ts := flag.Int64("ts", demoTimestamp, "observation time, unix seconds UTC")
	flag.Var(fields, "field", "observation field as name=value (repeatable)")
	flag.Parse()

	obs := wunderground.Observation(fields)
	if len(obs) == 0 {
		obs = wunderground.Observation{
			"tempf":    47.84,
			"humidity": 94.0,
		}
	}

	uploader := wunderground.NewUploader(
		wunderground.WithEndpoint(cfg.Endpoint),
		wunderground.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		wunderground.WithLogger(logger),
	)

	creds := wunderground.Credentials{StationID: *stationID, StationKey: *stationKey}
	res, err := uploader.Upload(context.Background(), creds, obs, *ts)
	if err != nil {
		logger.WithError(err).Fatal("upload not attempted")
	}

	logger.WithFields(logrus.Fields{
		"attempt": res.Attempt.String(),
		"sent":    res.Sent(),
		"status":  res.StatusCode,
	}).Info("upload finished")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
