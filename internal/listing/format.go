package listing

import (
	"time"

	"github.com/campushall/hallbook-api/internal/models"
)

const (
	dateLayout  = "02-01-2006"
	clockLayout = "15:04"
)

// FormatDate renders a calendar date the way the booking tables display it.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a dd-mm-yyyy calendar date, the format every booking
// surface exchanges dates in.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

// ParseClock validates a 24h "15:04" clock value and returns it normalised.
func ParseClock(raw string) (string, error) {
	t, err := time.Parse(clockLayout, raw)
	if err != nil {
		return "", err
	}
	return t.Format(clockLayout), nil
}

// FormatClock renders a 24h "15:04" value as a 12-hour clock with AM/PM.
// Unparseable values render empty.
func FormatClock(raw string) string {
	t, err := time.Parse(clockLayout, raw)
	if err != nil {
		return ""
	}
	return t.Format("03:04 PM")
}

// DateText derives the display representation of a booking's date: a single
// dd-mm-yyyy date, or "start to end" for multi-day ranges.
func DateText(b models.Booking) string {
	if b.EventDateType == models.DateTypeMultiple {
		if b.EventStartDate == nil || b.EventEndDate == nil {
			return ""
		}
		return FormatDate(*b.EventStartDate) + " to " + FormatDate(*b.EventEndDate)
	}
	if b.EventDate == nil {
		return ""
	}
	return FormatDate(*b.EventDate)
}

// TimeText derives the display representation of a half-day booking's time
// window, e.g. "10:00 AM - 12:30 PM". Bookings without both times render
// empty.
func TimeText(b models.Booking) string {
	if b.StartTime == "" || b.EndTime == "" {
		return ""
	}
	start := FormatClock(b.StartTime)
	end := FormatClock(b.EndTime)
	if start == "" || end == "" {
		return ""
	}
	return start + " - " + end
}
