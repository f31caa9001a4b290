package wunderground

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultEndpoint is the PWS real-time upload endpoint.
const DefaultEndpoint = "http://rtupdate.wunderground.com/weatherstation/updateweatherstation.php"

// FailureMessage is logged once for every upload that could not be delivered.
const FailureMessage = "Failed to post weather update to wunderground."

// Result describes a single upload attempt. Callers are free to ignore it.
type Result struct {
	Attempt    uuid.UUID
	StatusCode int   // 0 when no response headers were received
	Err        error // transport failure, if any
}

// Sent reports whether the remote service answered in full, whatever the status.
func (r Result) Sent() bool {
	return r.Err == nil && r.StatusCode != 0
}

// Uploader sends observations to the upload endpoint.
// It holds only configuration and is safe for concurrent use.
type Uploader struct {
	endpoint string
	client   *http.Client
	logger   logrus.FieldLogger
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithEndpoint overrides the upload URL.
func WithEndpoint(endpoint string) Option {
	return func(u *Uploader) {
		u.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for the outbound request.
func WithHTTPClient(client *http.Client) Option {
	return func(u *Uploader) {
		if client != nil {
			u.client = client
		}
	}
}

// WithLogger sets the logger receiving the failure line.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUploader creates an Uploader. Without options it targets DefaultEndpoint
// with a client that has no timeout and logs to stderr.
func NewUploader(opts ...Option) *Uploader {
	u := &Uploader{
		endpoint: DefaultEndpoint,
		client:   &http.Client{},
		logger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: &logrus.TextFormatter{},
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload performs exactly one upload attempt.
//
// An out-of-range timestamp or an unbuildable request is returned as an error
// and nothing is sent. Transport failures are never returned: they are logged
// once and reported through Result.Err. The response status is recorded but
// does not change the outcome.
func (u *Uploader) Upload(ctx context.Context, creds Credentials, obs Observation, ts int64) (Result, error) {
	payload, err := BuildPayload(creds, obs, ts)
	if err != nil {
		return Result{}, err
	}

	res := Result{Attempt: uuid.New()}
	log := u.logger.WithField("attempt", res.Attempt.String())

	target, err := url.Parse(u.endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("parse upload endpoint: %w", err)
	}
	// Params already on the endpoint are kept alongside the payload.
	query := target.Query()
	for k, v := range payload {
		query.Add(k, v)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build upload request: %w", err)
	}

	log.WithField("station", creds.StationID).Debug("uploading observation")

	resp, err := u.client.Do(req)
	if err != nil {
		res.Err = err
		log.WithError(err).Error(FailureMessage)
		return res, nil
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode

	// The body is read in full but not inspected; a connection dropped or
	// timed out mid-body is still a failed upload.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		res.Err = err
		log.WithError(err).Error(FailureMessage)
		return res, nil
	}

	log.WithField("status", resp.StatusCode).Debug("upload completed")
	return res, nil
}

var defaultUploader = NewUploader()

// UploadDataPoint sends one observation with the default uploader.
// Only timestamp errors are returned; network problems are logged and swallowed.
func UploadDataPoint(creds Credentials, obs Observation, ts int64) error {
	_, err := defaultUploader.Upload(context.Background(), creds, obs, ts)
	return err
}
