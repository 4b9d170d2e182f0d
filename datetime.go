package sdk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Wire layouts for timestamps and calendar dates.
const (
	DateTimeLayout = "2006-01-02T15:04:05Z"
	DateLayout     = "2006-01-02"
)

// accepted inbound timestamp layouts, tried in order.
var dateTimeParseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// DateTime is a UTC timestamp that marshals with second precision as
// 2006-01-02T15:04:05Z. Sub-second precision is kept in memory so comparisons
// against the clock see the caller's exact instant.
type DateTime struct {
	time.Time
}

// NewDateTime normalizes t to UTC. The wire form drops sub-seconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC()}
}

// ParseDateTime parses an RFC 3339 timestamp. Values without a zone are read as UTC.
func ParseDateTime(raw string) (DateTime, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateTimeParseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid timestamp %q", raw)
}

// String renders the wire format.
func (d DateTime) String() string {
	return d.UTC().Format(DateTimeLayout)
}

// Equal reports whether both values name the same second.
func (d DateTime) Equal(other DateTime) bool {
	return d.Time.Truncate(time.Second).Equal(other.Time.Truncate(time.Second))
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Date is a calendar day that marshals as 2006-01-02.
type Date struct {
	time.Time
}

// NewDate returns the calendar day y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today returns the current UTC calendar day.
func Today() Date {
	return DateOf(now().UTC())
}

// ParseDate parses a 2006-01-02 value.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return Date{Time: t}, nil
}

// AddDays returns the day n days after d.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

// String renders the wire format.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// normalizeTimes walks a generic JSON tree and renders every time.Time,
// DateTime and Date in its wire format, so ad-hoc maps serialize the same way
// typed schemas do.
func normalizeTimes(v any) any {
	switch val := v.(type) {
	case time.Time:
		return NewDateTime(val).String()
	case *time.Time:
		if val == nil {
			return nil
		}
		return NewDateTime(*val).String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeTimes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeTimes(item)
		}
		return out
	default:
		return v
	}
}
