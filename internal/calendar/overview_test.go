package calendar

import (
	"testing"
	"time"

	"timelink/internal/model"
)

var testHolidays = []model.Holiday{
	{ID: 1, Name: "New Year's Day", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 1)},
	{ID: 2, Name: "Spring Break", StartDate: date(2025, 3, 15), EndDate: date(2025, 3, 22)},
	{ID: 5, Name: "Summer Vacation", StartDate: date(2025, 7, 15), EndDate: date(2025, 8, 5)},
}

func TestHolidayOn(t *testing.T) {
	tests := []struct {
		day    time.Time
		wantID int
		wantOK bool
	}{
		{date(2025, 1, 1), 1, true},
		{time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC), 1, true},
		{date(2025, 3, 15), 2, true},
		{date(2025, 3, 22), 2, true},
		{date(2025, 3, 23), 0, false},
		{date(2025, 8, 1), 5, true},
	}
	for _, tt := range tests {
		h, ok := HolidayOn(testHolidays, tt.day)
		if ok != tt.wantOK || h.ID != tt.wantID {
			t.Errorf("HolidayOn(%s) = (%d, %v), want (%d, %v)", tt.day.Format("2006-01-02"), h.ID, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestYearOverview(t *testing.T) {
	events := []model.Event{
		{ID: 1, Date: date(2025, 3, 3)},
		recurring(date(2025, 1, 31), model.PatternMonthly, 1),
		{ID: 3, Date: date(2024, 3, 3)},
	}
	today := date(2025, 3, 10)

	months := YearOverview(events, testHolidays, 2025, today)
	if len(months) != 12 {
		t.Fatalf("got %d months, want 12", len(months))
	}

	wantCounts := map[time.Month]int{
		time.January: 1, time.February: 0, time.March: 2, time.April: 0,
		time.May: 1, time.June: 0, time.July: 1, time.August: 1,
		time.September: 0, time.October: 1, time.November: 0, time.December: 1,
	}
	for _, m := range months {
		if m.EventCount != wantCounts[m.Month] {
			t.Errorf("%s count = %d, want %d", m.Month, m.EventCount, wantCounts[m.Month])
		}
		wantCurrent := m.Month == time.March
		if m.IsCurrentMonth != wantCurrent {
			t.Errorf("%s current = %v, want %v", m.Month, m.IsCurrentMonth, wantCurrent)
		}
	}

	for _, m := range []time.Month{time.January, time.March, time.July, time.August} {
		if !months[m-1].HasHolidays {
			t.Errorf("%s should have holidays", m)
		}
	}
	if months[time.June-1].HasHolidays {
		t.Errorf("June should have no holidays")
	}
}

func TestMonthDays(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "late", Date: date(2025, 3, 15), StartTime: "17:00"},
		{ID: 2, Title: "early", Date: date(2025, 3, 15), StartTime: "09:00"},
	}
	today := date(2025, 3, 15)
	days := MonthDays(events, testHolidays, 2025, time.March, today)
	if len(days) != 31 {
		t.Fatalf("got %d days, want 31", len(days))
	}

	d := days[14]
	if !d.IsToday || !d.IsWeekend {
		t.Errorf("2025-03-15 should be today and a Saturday: %+v", d)
	}
	if d.Holiday == nil || d.Holiday.Name != "Spring Break" {
		t.Errorf("expected Spring Break on 2025-03-15")
	}
	if len(d.Events) != 2 || d.Events[0].Title != "early" {
		t.Errorf("events not sorted by start time: %+v", d.Events)
	}
	if days[0].Holiday != nil || days[0].IsToday {
		t.Errorf("2025-03-01 should be a plain day: %+v", days[0])
	}
}

func TestWeekDaysStartsOnSunday(t *testing.T) {
	days := WeekDays(nil, nil, date(2025, 1, 1), date(2025, 1, 1))
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if !SameDay(days[0].Date, date(2024, 12, 29)) {
		t.Errorf("week starts %s, want 2024-12-29", days[0].Date.Format("2006-01-02"))
	}
	if !days[3].IsToday {
		t.Errorf("Wednesday should be today")
	}
}

func TestSearch(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "Team Meeting", Category: "Work"},
		{ID: 2, Title: "Lunch", Location: "Cafe Milano"},
		{ID: 3, Title: "Gym", Description: "Cardio + upper body", Category: "Health"},
	}
	tests := []struct {
		query string
		want  []int
	}{
		{"meeting", []int{1}},
		{"MILANO", []int{2}},
		{"cardio", []int{3}},
		{"health", []int{3}},
		{"  ", nil},
		{"dentist", nil},
	}
	for _, tt := range tests {
		got := Search(events, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q) returned %d events, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Errorf("Search(%q)[%d] = %d, want %d", tt.query, i, got[i].ID, id)
			}
		}
	}
}

func TestSortByStartTimeStable(t *testing.T) {
	in := []model.Event{
		{ID: 1, StartTime: "10:00"},
		{ID: 2, StartTime: "08:30"},
		{ID: 3, StartTime: "10:00"},
	}
	got := SortByStartTime(in)
	want := []int{2, 1, 3}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %d, want %d", i, got[i].ID, id)
		}
	}
	if in[0].ID != 1 {
		t.Errorf("input slice was reordered")
	}
}
