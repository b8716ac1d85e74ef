package timeutil

import (
	"errors"
	"time"
)

// DateLayout renders calendar dates as YYYY-MM-DD.
const DateLayout = "2006-01-02"

// ErrInvalidDate reports a date string that does not match the configured layout.
var ErrInvalidDate = errors.New("invalid date")

// DateFormat renders and parses calendar dates in a fixed layout and location.
// It is a value type: build it once at startup and pass it to whatever renders dates.
type DateFormat struct {
	layout   string
	location *time.Location
}

// NewDateFormat returns the YYYY-MM-DD format pinned to UTC.
func NewDateFormat() DateFormat {
	return DateFormat{layout: DateLayout, location: time.UTC}
}

// Layout returns the Go reference layout.
func (f DateFormat) Layout() string {
	if f.layout == "" {
		return DateLayout
	}
	return f.layout
}

func (f DateFormat) loc() *time.Location {
	if f.location == nil {
		return time.UTC
	}
	return f.location
}

// Format renders the calendar date year-month-day. The date is interpreted in the
// format's location and never shifted by the host time zone.
func (f DateFormat) Format(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, f.loc()).Format(f.Layout())
}

// Parse returns the year, month and day encoded in s.
func (f DateFormat) Parse(s string) (int, time.Month, int, error) {
	t, err := time.ParseInLocation(f.Layout(), s, f.loc())
	if err != nil {
		return 0, 0, 0, ErrInvalidDate
	}
	return t.Year(), t.Month(), t.Day(), nil
}
