// Package cycledate provides the calendar-date value type used across the
// cycle engine and the date-phrase grammar for conversational input.
//
// All timezone normalization happens here, at the boundary where external
// input enters. The engine itself only ever sees Date values.
package cycledate

import (
	"fmt"
	"time"
)

const isoLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component.
// The zero value reports IsZero and formats as an empty string.
type Date struct {
	year  int
	month time.Month
	day   int
}

func New(year int, month time.Month, day int) Date {
	// Normalize overflow (e.g. Feb 30 -> Mar 2) through time.Date.
	normalized := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := normalized.Date()
	return Date{year: y, month: m, day: d}
}

// FromTime truncates a timestamp to its calendar date in the given location.
func FromTime(value time.Time, location *time.Location) Date {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return Date{year: year, month: month, day: day}
}

// ParseISO parses a strict YYYY-MM-DD calendar date.
func ParseISO(value string) (Date, error) {
	parsed, err := time.Parse(isoLayout, value)
	if err != nil {
		return Date{}, err
	}
	year, month, day := parsed.Date()
	return Date{year: year, month: month, day: day}, nil
}

func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Time returns the fixed reference instant for the date: midnight in the
// given location. Using one instant per day avoids timezone drift in
// day-difference arithmetic.
func (d Date) Time(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, location)
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

func (d Date) AddDays(days int) Date {
	shifted := d.Time(time.UTC).AddDate(0, 0, days)
	year, month, day := shifted.Date()
	return Date{year: year, month: month, day: day}
}

// DaysSince returns the signed number of whole days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time(time.UTC).Sub(other.Time(time.UTC)).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.DaysSince(other) < 0 }
func (d Date) After(other Date) bool  { return d.DaysSince(other) > 0 }
func (d Date) Equal(other Date) bool  { return d == other }

// String formats the date as YYYY-MM-DD, the wire format for all payloads.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalJSON encodes the date as an ISO-8601 calendar date string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" || raw == `""` {
		*d = Date{}
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", raw)
	}
	parsed, err := ParseISO(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
