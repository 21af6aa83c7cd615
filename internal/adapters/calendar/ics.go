// Package calendar exports events as iCalendar documents.
package calendar

import (
	"strings"
	"time"

	"collegeevents/internal/domain"
	"collegeevents/internal/eventtime"

	ical "github.com/arran4/golang-ical"
)

const (
	productID = "-//College Events//Event Calendar//EN"
	// DefaultDuration is used for DTEND since events carry only a start time.
	DefaultDuration = 2 * time.Hour
)

// EventICS renders a VCALENDAR containing a single VEVENT for e, reading its
// time of day in loc. Start and end are written in UTC.
func EventICS(e *domain.Event, loc *time.Location, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	start := eventtime.EventStart(e.Date, e.Time, loc)
	ve := cal.AddEvent(e.ID + "@collegeevents")
	ve.SetDtStampTime(now.UTC())
	if !e.CreatedAt.IsZero() {
		ve.SetCreatedTime(e.CreatedAt.UTC())
	}
	ve.SetStartAt(start.UTC())
	ve.SetEndAt(start.Add(DefaultDuration).UTC())
	ve.SetSummary(e.Title)
	ve.SetLocation(e.Venue)
	if desc := strings.TrimSpace(e.Description); desc != "" {
		ve.SetDescription(desc)
	}
	if e.Organizer != "" {
		ve.AddComment("Organized by " + e.Organizer)
	}
	ve.AddCategory(string(e.Category))
	if e.RegistrationLink != nil {
		ve.SetURL(*e.RegistrationLink)
	}
	return cal.Serialize()
}
