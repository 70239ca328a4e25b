// Package calendar decides on which days events occur and builds the
// day, week, month and year summaries shown by the agenda.
//
// All comparisons are by civil date (year, month, day). The time-of-day and
// location carried by a time.Time never move an occurrence to another day.
package calendar

import (
	"time"

	"timelink/internal/model"
)

// OccursOn reports whether e happens on the calendar day of target.
//
// Non-recurring events occur only on their anchor day. Recurring events are
// checked in order: not started yet, past the inclusive end date, then the
// pattern rule. Weekly events always occur on the selected days of the seven
// days starting at the anchor, whatever the interval.
func OccursOn(e model.Event, target time.Time) bool {
	if !e.IsRecurring {
		return SameDay(e.Date, target)
	}

	anchor, day := civil(e.Date), civil(target)
	if anchor.After(day) {
		return false
	}
	if e.RecurrenceEndDate != nil && civil(*e.RecurrenceEndDate).Before(day) {
		return false
	}

	interval := intervalOf(e)
	switch e.RecurrencePattern {
	case model.PatternDaily:
		if interval == 1 {
			return true
		}
		return daysBetween(anchor, day)%interval == 0
	case model.PatternWeekly:
		if !e.HasRecurrenceDay(day.Weekday()) {
			return false
		}
		weeks := daysBetween(anchor, day) / 7
		if weeks == 0 {
			return true
		}
		return weeks%interval == 0
	case model.PatternMonthly:
		// Anchors on the 29th-31st skip months that are too short.
		if day.Day() != anchor.Day() {
			return false
		}
		return (monthIndex(day)-monthIndex(anchor))%interval == 0
	case model.PatternYearly:
		if day.Month() != anchor.Month() || day.Day() != anchor.Day() {
			return false
		}
		return (day.Year()-anchor.Year())%interval == 0
	default:
		return false
	}
}

// EventsOnDate returns the non-recurring events anchored on date followed by
// the recurring events that occur on it, each group in input order.
func EventsOnDate(events []model.Event, date time.Time) []model.Event {
	var direct, recurring []model.Event
	for _, e := range events {
		if e.IsRecurring {
			if OccursOn(e, date) {
				recurring = append(recurring, e)
			}
			continue
		}
		if SameDay(e.Date, date) {
			direct = append(direct, e)
		}
	}
	return append(direct, recurring...)
}

// OccursInMonth is the coarse check behind month badges and year counts.
// Monthly and yearly events only need their anchor day to exist in the
// month and the interval to line up; daily and weekly events are walked day
// by day unless every day trivially matches.
func OccursInMonth(e model.Event, year int, month time.Month) bool {
	if !e.IsRecurring {
		return e.Date.Year() == year && e.Date.Month() == month
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	anchor := civil(e.Date)
	if anchor.After(monthEnd) {
		return false
	}
	if e.RecurrenceEndDate != nil && civil(*e.RecurrenceEndDate).Before(monthStart) {
		return false
	}

	interval := intervalOf(e)
	switch e.RecurrencePattern {
	case model.PatternDaily:
		if interval == 1 {
			return true
		}
		return anyDayIn(e, monthStart, monthEnd)
	case model.PatternWeekly:
		return anyDayIn(e, monthStart, monthEnd)
	case model.PatternMonthly:
		if anchor.Day() > DaysIn(year, month) {
			return false
		}
		return (monthIndex(monthStart)-monthIndex(anchor))%interval == 0
	case model.PatternYearly:
		if anchor.Month() != month || anchor.Day() > DaysIn(year, month) {
			return false
		}
		return (year-anchor.Year())%interval == 0
	default:
		return false
	}
}

func anyDayIn(e model.Event, from, to time.Time) bool {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if OccursOn(e, d) {
			return true
		}
	}
	return false
}

// SameDay compares the calendar dates of a and b, ignoring time and location.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// civil maps t to midnight UTC of the same calendar date so that day
// arithmetic is exact regardless of DST in t's own location.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from from to to; negative when to is
// earlier.
func daysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)) / (24 * time.Hour))
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// intervalOf guards the modulo below. Saved events are already clamped.
func intervalOf(e model.Event) int {
	if e.RecurrenceInterval < 1 {
		return 1
	}
	return e.RecurrenceInterval
}
