// Package eventtime formats event dates and derives countdowns to an event start.
package eventtime

import (
	"strings"
	"time"
)

// displayLayout renders e.g. "Fri, Jan 10, 2025".
const displayLayout = "Mon, Jan 2, 2006"

// FormatDate renders t as abbreviated weekday, abbreviated month, day and year.
func FormatDate(t time.Time) string {
	return t.Format(displayLayout)
}

// EventStart combines a calendar date with an "HH:MM" wall-clock time read in loc.
// A nil loc uses the date's own location. An unparseable time of day falls back
// to midnight.
func EventStart(date time.Time, hhmm string, loc *time.Location) time.Time {
	if loc == nil {
		loc = date.Location()
	}
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	tod, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return start
	}
	return start.Add(time.Duration(tod.Hour())*time.Hour + time.Duration(tod.Minute())*time.Minute)
}
