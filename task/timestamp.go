package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WireLayout is the zone-less ISO-8601 layout the backend emits and accepts.
const WireLayout = "2006-01-02T15:04:05"

// FormLayout is the layout of due dates typed into the edit form.
const FormLayout = "2006-01-02T15:04"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	WireLayout,
	FormLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Timestamp is a point in time encoded the way the backend does it.
// Values decoded without a zone keep their wall clock and take the zone
// of whoever reads them through In.
type Timestamp struct {
	time.Time

	// floating is set when the wire value had no zone. Time then holds the
	// wall clock in UTC.
	floating bool
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp parses value in any of the supported layouts, using loc
// for values without a zone. A nil loc means time.Local.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range parseLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unsupported format", value)
}

// In returns the time in loc. A zone-less backend value is read as wall
// clock time in loc. A nil loc means time.Local.
func (t Timestamp) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if !t.floating {
		return t.Time.In(loc)
	}
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), loc)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(WireLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(value, time.UTC)
	if err != nil {
		return err
	}
	t.Time = parsed
	t.floating = !hasZone(value)
	return nil
}

func hasZone(value string) bool {
	_, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	return err == nil
}
