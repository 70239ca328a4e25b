package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"timelink/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUIDIsStable(t *testing.T) {
	if UID("event", 1) != UID("event", 1) {
		t.Fatal("UID changed between calls")
	}
	if UID("event", 1) == UID("holiday", 1) || UID("event", 1) == UID("event", 2) {
		t.Fatal("UID collision")
	}
}

func TestRuleFor(t *testing.T) {
	end := day(2025, 6, 30)
	tests := []struct {
		name  string
		event model.Event
		want  []string
	}{
		{
			name:  "weekly with days",
			event: model.Event{Date: day(2025, 1, 6), IsRecurring: true, RecurrencePattern: model.PatternWeekly, RecurrenceInterval: 2, RecurrenceDay: []int{1, 3}},
			want:  []string{"FREQ=WEEKLY", "INTERVAL=2", "BYDAY=MO,WE"},
		},
		{
			name:  "weekly defaults to anchor weekday",
			event: model.Event{Date: day(2025, 1, 1), IsRecurring: true, RecurrencePattern: model.PatternWeekly, RecurrenceInterval: 1},
			want:  []string{"FREQ=WEEKLY", "BYDAY=WE"},
		},
		{
			name:  "monthly until",
			event: model.Event{Date: day(2025, 1, 31), IsRecurring: true, RecurrencePattern: model.PatternMonthly, RecurrenceInterval: 1, RecurrenceEndDate: &end},
			want:  []string{"FREQ=MONTHLY", "UNTIL=20250630T235959Z"},
		},
		{
			name:  "yearly",
			event: model.Event{Date: day(2024, 2, 29), IsRecurring: true, RecurrencePattern: model.PatternYearly, RecurrenceInterval: 1},
			want:  []string{"FREQ=YEARLY"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ruleFor(tt.event, time.UTC)
			if !ok {
				t.Fatal("no rule")
			}
			for _, part := range tt.want {
				if !strings.Contains(got, part) {
					t.Fatalf("rule %q missing %q", got, part)
				}
			}
		})
	}

	if _, ok := ruleFor(model.Event{Date: day(2025, 1, 1)}, time.UTC); ok {
		t.Fatal("rule for a one-off event")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	end := day(2025, 6, 30)
	events := []model.Event{
		{
			ID: 1, Title: "Standup", Date: day(2025, 1, 6), StartTime: "09:00", EndTime: "09:15",
			Location: "Room 4", Category: "work",
			IsRecurring: true, RecurrencePattern: model.PatternWeekly, RecurrenceInterval: 2,
			RecurrenceDay: []int{1, 3}, RecurrenceEndDate: &end,
		},
		{ID: 2, Title: "Anniversary", Date: day(2025, 5, 20), IsRecurring: true, RecurrencePattern: model.PatternYearly, RecurrenceInterval: 1},
		{ID: 3, Title: "Dentist", Date: day(2025, 2, 14), StartTime: "15:30"},
	}
	holidays := []model.Holiday{
		{ID: 1, Name: "Spring Break", StartDate: day(2025, 3, 15), EndDate: day(2025, 3, 23)},
	}

	var buf bytes.Buffer
	if err := Export(&buf, events, holidays, time.UTC); err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Count(out, "BEGIN:VEVENT") != 4 {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	if !strings.Contains(out, UID("event", 1)) {
		t.Fatal("event UID missing")
	}

	gotEvents, gotHolidays, err := Import(strings.NewReader(out), time.UTC)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(gotEvents) != 3 || len(gotHolidays) != 1 {
		t.Fatalf("imported %d events, %d holidays", len(gotEvents), len(gotHolidays))
	}

	standup := gotEvents[0]
	if standup.Title != "Standup" || standup.StartTime != "09:00" || standup.EndTime != "09:15" {
		t.Fatalf("standup = %+v", standup)
	}
	if !standup.IsRecurring || standup.RecurrencePattern != model.PatternWeekly || standup.RecurrenceInterval != 2 {
		t.Fatalf("standup recurrence = %+v", standup)
	}
	if len(standup.RecurrenceDay) != 2 || standup.RecurrenceDay[0] != 1 || standup.RecurrenceDay[1] != 3 {
		t.Fatalf("standup days = %v", standup.RecurrenceDay)
	}
	if standup.RecurrenceEndDate == nil || !standup.RecurrenceEndDate.Equal(end) {
		t.Fatalf("standup end = %v", standup.RecurrenceEndDate)
	}
	if !standup.Date.Equal(day(2025, 1, 6)) {
		t.Fatalf("standup date = %v", standup.Date)
	}

	anniversary := gotEvents[1]
	if anniversary.StartTime != "" || anniversary.RecurrencePattern != model.PatternYearly || !anniversary.Date.Equal(day(2025, 5, 20)) {
		t.Fatalf("anniversary = %+v", anniversary)
	}
	if dentist := gotEvents[2]; dentist.IsRecurring || dentist.EndTime != "16:30" {
		t.Fatalf("dentist = %+v", dentist)
	}

	h := gotHolidays[0]
	if h.Name != "Spring Break" || !h.StartDate.Equal(day(2025, 3, 15)) || !h.EndDate.Equal(day(2025, 3, 23)) {
		t.Fatalf("holiday = %+v", h)
	}
}

func TestImportSkipsMissingStartAndUnsupportedFrequency(t *testing.T) {
	const cal = "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:no-start\r\n" +
		"SUMMARY:Nowhere\r\n" +
		"END:VEVENT\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:hourly\r\n" +
		"SUMMARY:Ping\r\n" +
		"DTSTART:20250301T100000Z\r\n" +
		"RRULE:FREQ=HOURLY;INTERVAL=4\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"

	events, holidays, err := Import(strings.NewReader(cal), time.UTC)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(events) != 1 || len(holidays) != 0 {
		t.Fatalf("got %d events, %d holidays", len(events), len(holidays))
	}
	if e := events[0]; e.IsRecurring || e.Title != "Ping" || e.StartTime != "10:00" {
		t.Fatalf("event = %+v", e)
	}
}

func TestImportConvertsToLocation(t *testing.T) {
	const cal = "BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"PRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:late\r\n" +
		"SUMMARY:Late call\r\n" +
		"DTSTART:20250301T230000Z\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	seoul := time.FixedZone("KST", 9*3600)
	events, _, err := Import(strings.NewReader(cal), seoul)
	if err != nil {
		t.Fatal(err)
	}
	e := events[0]
	if e.Date.Day() != 2 || e.StartTime != "08:00" || e.Date.Location() != seoul {
		t.Fatalf("event = %+v", e)
	}
}
