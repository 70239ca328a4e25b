package calendar

import (
	"sort"
	"strings"
	"time"

	"timelink/internal/model"
)

type DaySummary struct {
	Date      time.Time
	IsToday   bool
	IsWeekend bool
	Holiday   *model.Holiday
	Events    []model.Event
}

type MonthSummary struct {
	Month          time.Month
	IsCurrentMonth bool
	EventCount     int
	HasHolidays    bool
}

// HolidayOn returns the first holiday whose inclusive range covers date.
func HolidayOn(holidays []model.Holiday, date time.Time) (model.Holiday, bool) {
	day := civil(date)
	for _, h := range holidays {
		if !civil(h.StartDate).After(day) && !civil(h.EndDate).Before(day) {
			return h, true
		}
	}
	return model.Holiday{}, false
}

// HolidayInMonth reports whether any holiday overlaps the month.
func HolidayInMonth(holidays []model.Holiday, year int, month time.Month) bool {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	for _, h := range holidays {
		if !civil(h.StartDate).After(monthEnd) && !civil(h.EndDate).Before(monthStart) {
			return true
		}
	}
	return false
}

// MonthDays summarises every day of a month for a grid view.
func MonthDays(events []model.Event, holidays []model.Holiday, year int, month time.Month, today time.Time) []DaySummary {
	n := DaysIn(year, month)
	days := make([]DaySummary, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, summarize(events, holidays, time.Date(year, month, d, 0, 0, 0, 0, today.Location()), today))
	}
	return days
}

// WeekDays summarises the Sunday-to-Saturday week containing day.
func WeekDays(events []model.Event, holidays []model.Holiday, day, today time.Time) []DaySummary {
	start := time.Date(day.Year(), day.Month(), day.Day()-int(day.Weekday()), 0, 0, 0, 0, day.Location())
	days := make([]DaySummary, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, summarize(events, holidays, start.AddDate(0, 0, i), today))
	}
	return days
}

func summarize(events []model.Event, holidays []model.Holiday, date, today time.Time) DaySummary {
	s := DaySummary{
		Date:      date,
		IsToday:   SameDay(date, today),
		IsWeekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
		Events:    SortByStartTime(EventsOnDate(events, date)),
	}
	if h, ok := HolidayOn(holidays, date); ok {
		s.Holiday = &h
	}
	return s
}

// YearOverview counts, per month, the events anchored in it plus the
// recurring events that occur in it at least once.
func YearOverview(events []model.Event, holidays []model.Holiday, year int, today time.Time) []MonthSummary {
	months := make([]MonthSummary, 0, 12)
	for m := time.January; m <= time.December; m++ {
		count := 0
		for _, e := range events {
			anchored := e.Date.Year() == year && e.Date.Month() == m
			if anchored || (e.IsRecurring && OccursInMonth(e, year, m)) {
				count++
			}
		}
		months = append(months, MonthSummary{
			Month:          m,
			IsCurrentMonth: today.Year() == year && today.Month() == m,
			EventCount:     count,
			HasHolidays:    HolidayInMonth(holidays, year, m),
		})
	}
	return months
}

// SortByStartTime orders events by their "HH:MM" start, keeping input order
// for ties. The input slice is not modified.
func SortByStartTime(events []model.Event) []model.Event {
	out := append([]model.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Search matches query case-insensitively against title, description,
// location and category. A blank query matches nothing.
func Search(events []model.Event, query string) []model.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []model.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Location), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}
