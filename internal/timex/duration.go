// Package timex extends time.Duration parsing with a day unit and provides a
// JSON-friendly Duration wrapper for configuration files.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ParseDuration accepts everything time.ParseDuration does plus a leading
// day component, e.g. "7d", "1d12h", "-2d".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timex: empty duration")
	}

	sign := time.Duration(1)
	rest := s
	if rest[0] == '-' || rest[0] == '+' {
		if rest[0] == '-' {
			sign = -1
		}
		rest = rest[1:]
	}

	i := strings.IndexByte(rest, 'd')
	if i < 0 {
		return time.ParseDuration(s)
	}

	days, err := strconv.ParseInt(rest[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timex: invalid day component in %q", s)
	}
	d := time.Duration(days) * day

	if tail := rest[i+1:]; tail != "" {
		td, err := time.ParseDuration(tail)
		if err != nil {
			return 0, fmt.Errorf("timex: invalid duration %q: %w", s, err)
		}
		if td < 0 {
			return 0, fmt.Errorf("timex: invalid duration %q", s)
		}
		d += td
	}
	return sign * d, nil
}

// Duration unmarshals from either a duration string ("15m", "7d") or an
// integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("timex: invalid duration %s", string(b))
	}
}
