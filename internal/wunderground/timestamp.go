package wunderground

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the dateutc format expected by the upload protocol.
const DateLayout = "2006-01-02 15:04:05"

// ErrTimestampOutOfRange is returned for epoch values outside years 1-9999.
var ErrTimestampOutOfRange = errors.New("timestamp out of range")

var (
	minTimestamp = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxTimestamp = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// FormatTimestamp renders unix seconds as "YYYY-MM-DD HH:MM:SS" in UTC.
func FormatTimestamp(ts int64) (string, error) {
	if ts < minTimestamp || ts > maxTimestamp {
		return "", fmt.Errorf("%w: %d", ErrTimestampOutOfRange, ts)
	}
	return time.Unix(ts, 0).UTC().Format(DateLayout), nil
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
