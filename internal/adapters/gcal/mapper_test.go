package gcal

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/ManrajK5/Studdy-Buddy/internal/domain/entities"
)

func TestMapEventAllDay(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantEnd string
	}{
		{"plain day", "2026-03-04", "2026-03-05"},
		{"month rollover", "2026-04-30", "2026-05-01"},
		{"february non-leap", "2026-02-28", "2026-03-01"},
		{"february leap", "2028-02-28", "2028-02-29"},
		{"year rollover", "2026-12-31", "2027-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := MapEvent(entities.ParsedEvent{
				Title:    "Midterm",
				Category: entities.CategoryExam,
				Date:     tt.date,
			}, "", nil)

			if ev.Start.Date != tt.date {
				t.Errorf("Start.Date = %q, want %q", ev.Start.Date, tt.date)
			}
			if ev.End.Date != tt.wantEnd {
				t.Errorf("End.Date = %q, want %q", ev.End.Date, tt.wantEnd)
			}
			if ev.Start.DateTime != "" || ev.End.DateTime != "" {
				t.Error("all-day event must not carry DateTime")
			}
		})
	}
}

func TestMapEventTimed(t *testing.T) {
	ev := MapEvent(entities.ParsedEvent{
		Title:    "Quiz 3",
		Category: entities.CategoryQuiz,
		Date:     "2026-03-04T14:30:00Z",
	}, "America/Toronto", nil)

	if ev.Start.DateTime != "2026-03-04T14:30:00Z" || ev.End.DateTime != "2026-03-04T14:30:00Z" {
		t.Errorf("timed event start/end = %q/%q, want identical instants", ev.Start.DateTime, ev.End.DateTime)
	}
	if ev.Start.TimeZone != "America/Toronto" || ev.End.TimeZone != "America/Toronto" {
		t.Errorf("time zone = %q/%q", ev.Start.TimeZone, ev.End.TimeZone)
	}
	if ev.Start.Date != "" {
		t.Error("timed event must not carry a Date")
	}
}

func TestMapEventSummaryPrefix(t *testing.T) {
	ev := MapEvent(entities.ParsedEvent{
		Title:    "Problem Set 2",
		Category: entities.CategoryAssignment,
		Date:     "2026-03-04",
	}, "", nil)

	if ev.Summary != "ASSIGNMENT: Problem Set 2" {
		t.Errorf("Summary = %q", ev.Summary)
	}
}

func TestMapEventReminderTriState(t *testing.T) {
	base := entities.ParsedEvent{Title: "Quiz", Category: entities.CategoryQuiz, Date: "2026-03-04"}

	t.Run("nil keeps service default", func(t *testing.T) {
		ev := MapEvent(base, "", nil)
		if ev.Reminders != nil {
			t.Error("reminders field must be omitted for the service default")
		}
	})

	t.Run("none disables reminders", func(t *testing.T) {
		ev := MapEvent(base, "", &entities.ReminderSetting{None: true})
		if ev.Reminders == nil || ev.Reminders.UseDefault || len(ev.Reminders.Overrides) != 0 {
			t.Errorf("Reminders = %+v, want explicit empty override set", ev.Reminders)
		}
		if len(ev.Reminders.ForceSendFields) == 0 {
			t.Error("UseDefault=false must be force-sent or the service ignores it")
		}
	})

	t.Run("minutes set a popup override", func(t *testing.T) {
		ev := MapEvent(base, "", &entities.ReminderSetting{Minutes: 0})
		if ev.Reminders == nil || len(ev.Reminders.Overrides) != 1 {
			t.Fatalf("Reminders = %+v, want one override", ev.Reminders)
		}
		ov := ev.Reminders.Overrides[0]
		if ov.Method != "popup" || ov.Minutes != 0 {
			t.Errorf("override = %+v", ov)
		}
		if len(ov.ForceSendFields) == 0 {
			t.Error("Minutes=0 must be force-sent")
		}
	})
}

func TestAddOneDayMatchesCalendarArithmetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		day := rapid.Int64Range(0, 60000).Draw(t, "day")
		date := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(day))

		got := addOneDay(date.Format("2006-01-02"))
		next, err := time.Parse("2006-01-02", got)
		if err != nil {
			t.Fatalf("addOneDay produced unparseable date %q", got)
		}
		if diff := next.Sub(date); diff != 24*time.Hour {
			t.Fatalf("addOneDay(%s) = %s, advanced by %v", date.Format("2006-01-02"), got, diff)
		}
	})
}
