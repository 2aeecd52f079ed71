package gcal

import (
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
)

// DefaultTimeZone is the fallback zone for timed events when the caller has none.
const DefaultTimeZone = "UTC"

// MapEvent converts one extracted event into the calendar wire format.
//
// A pure calendar date becomes an all-day event whose end date is the start plus
// one calendar day, the service's convention for a one-day span. Anything else is
// treated as a fully qualified instant and becomes a zero-duration timed event
// with identical start and end. The reminder tri-state is preserved exactly: a
// nil setting omits the reminders field so the service default applies.
func MapEvent(ev entities.ParsedEvent, timeZone string, reminder *entities.ReminderSetting) *calendar.Event {
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}

	out := &calendar.Event{
		Summary:     strings.ToUpper(string(ev.Category)) + ": " + ev.Title,
		Description: ev.Description,
	}

	if entities.IsDateOnly(ev.Date) {
		out.Start = &calendar.EventDateTime{Date: ev.Date}
		out.End = &calendar.EventDateTime{Date: addOneDay(ev.Date)}
	} else {
		out.Start = &calendar.EventDateTime{DateTime: ev.Date, TimeZone: timeZone}
		out.End = &calendar.EventDateTime{DateTime: ev.Date, TimeZone: timeZone}
	}

	if reminder != nil {
		reminders := &calendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		}
		if !reminder.None {
			reminders.Overrides = []*calendar.EventReminder{{
				Method:          "popup",
				Minutes:         reminder.Minutes,
				ForceSendFields: []string{"Minutes"},
			}}
		}
		out.Reminders = reminders
	}

	return out
}

// addOneDay advances a YYYY-MM-DD date by one calendar day, rolling over month
// and year boundaries. An unparseable date is returned unchanged; the service
// will reject it with a diagnostic the caller can surface.
func addOneDay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}
