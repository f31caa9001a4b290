package wunderground

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Protocol field names set on every upload.
const (
	FieldAction   = "action"
	FieldDateUTC  = "dateutc"
	FieldID       = "ID"
	FieldPassword = "PASSWORD"
	FieldRealtime = "realtime"
	FieldRTFreq   = "rtfreq"
)

// Observation maps upload protocol field names (tempf, humidity, ...) to scalar values.
// A nil value removes the field from the payload.
type Observation map[string]any

// Credentials identify a registered personal weather station.
type Credentials struct {
	StationID  string
	StationKey string
}

// Payload is the full set of query parameters sent on an upload.
type Payload map[string]string

// Values converts the payload into url.Values for query encoding.
func (p Payload) Values() url.Values {
	values := url.Values{}
	for k, v := range p {
		values.Set(k, v)
	}
	return values
}

// BuildPayload merges the fixed protocol fields with the observation.
// Observation fields override fixed fields of the same name.
func BuildPayload(creds Credentials, obs Observation, ts int64) (Payload, error) {
	date, err := FormatTimestamp(ts)
	if err != nil {
		return nil, err
	}

	p := Payload{
		FieldAction:   "updateraw",
		FieldDateUTC:  date,
		FieldID:       creds.StationID,
		FieldPassword: creds.StationKey,
		FieldRealtime: "1",
		FieldRTFreq:   "2.5",
	}

	for k, v := range obs {
		if v == nil {
			delete(p, k)
			continue
		}
		p[k] = formatValue(v)
	}

	return p, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat uses exponent notation below 1e-4 and from 1e16 up,
// otherwise plain decimal with a
// trailing ".0" on integral values (94.0 is sent as "94.0").
func formatFloat(f float64, bitSize int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	if f != 0 {
		e := strconv.FormatFloat(f, 'e', -1, bitSize)
		exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
		if err == nil && (exp < -4 || exp >= 16) {
			return e
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
