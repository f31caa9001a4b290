package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/pws-uploader/internal/wunderground"
)

var validate = validator.New()

// Uploader forwards a single observation upstream.
type Uploader interface {
	Upload(ctx context.Context, creds wunderground.Credentials, obs wunderground.Observation, ts int64) (wunderground.Result, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, uploader Uploader) {
	v1 := app.Group("/api/v1")

	v1.Post("/observations", func(c *fiber.Ctx) error {
		var req observationRequest
		if err := req.bind(c.Body()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ts, err := req.timestamp(time.Now)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		creds := wunderground.Credentials{
			StationID:  req.StationID,
			StationKey: req.StationKey,
		}
		res, err := uploader.Upload(c.UserContext(), creds, req.Fields, ts)
		if err != nil {
			if errors.Is(err, wunderground.ErrTimestampOutOfRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build upload request")
		}

		// Delivery problems are not an error for the caller; report them in the body.
		return c.Status(fiber.StatusAccepted).JSON(uploadResponse{
			Attempt:    res.Attempt.String(),
			Sent:       res.Sent(),
			StatusCode: res.StatusCode,
		})
	})
}

// observationRequest is the body accepted by the observations endpoint.
type observationRequest struct {
	StationID  string                   `json:"stationId" validate:"required"`
	StationKey string                   `json:"stationKey" validate:"required"`
	Timestamp  any                      `json:"timestamp"`
	Fields     wunderground.Observation `json:"fields"`
}

type uploadResponse struct {
	Attempt    string `json:"attempt"`
	Sent       bool   `json:"sent"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// bind decodes the body keeping numbers as written, so "94.0" is forwarded unchanged.
func (r *observationRequest) bind(body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(r); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	for k, v := range r.Fields {
		switch v.(type) {
		case nil, string, bool, json.Number:
		default:
			return fmt.Errorf("field %q must be a scalar value", k)
		}
	}
	return nil
}

// timestamp accepts unix seconds or the protocol date format; missing means now.
func (r *observationRequest) timestamp(now func() time.Time) (int64, error) {
	switch v := r.Timestamp.(type) {
	case nil:
		return now().UTC().Unix(), nil
	case json.Number:
		ts, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil {
			return 0, errors.New("timestamp must be integer unix seconds")
		}
		return ts, nil
	case string:
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return ts, nil
		}
		ts, err := wunderground.ParseTimestamp(v)
		if err != nil {
			return 0, errors.New("invalid timestamp; use unix seconds or YYYY-MM-DD HH:MM:SS")
		}
		return ts, nil
	default:
		return 0, errors.New("invalid timestamp; use unix seconds or YYYY-MM-DD HH:MM:SS")
	}
}
