// Package ics converts events and holidays to and from iCalendar.
//
// Recurrence maps onto RRULE FREQ/INTERVAL/BYDAY/UNTIL. A weekly event
// always occurs on its selected days during its first week; RRULE has no
// such rule, so an exported interval above one can drop first-week days
// that fall before the anchor's weekday. Everything else round-trips.
package ics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"timelink/internal/log"
	"timelink/internal/model"
)

const (
	productID = "-//timelink//agenda//EN"
	// HolidayCategory marks VEVENTs that are holidays rather than events.
	HolidayCategory = "HOLIDAY"

	dateLayout = "20060102"
)

// sundayFirst indexes rrule weekdays by 0=Sunday..6=Saturday.
var sundayFirst = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Export writes a VCALENDAR with one VEVENT per event and one all-day
// VEVENT per holiday. Dates are interpreted in loc.
func Export(w io.Writer, events []model.Event, holidays []model.Holiday, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	stamp := time.Now().UTC()

	for _, e := range events {
		ve := cal.AddEvent(UID("event", e.ID))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}

		day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)
		if start, ok := clockOn(day, e.StartTime); ok {
			end, ok := clockOn(day, e.EndTime)
			if !ok || !end.After(start) {
				end = start.Add(time.Hour)
			}
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		} else {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		if rule, ok := ruleFor(e, loc); ok {
			ve.AddProperty(ical.ComponentPropertyRrule, rule)
		}
	}

	for _, h := range holidays {
		ve := cal.AddEvent(UID("holiday", h.ID))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(h.Name)
		if h.Description != "" {
			ve.SetDescription(h.Description)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, HolidayCategory)
		start := time.Date(h.StartDate.Year(), h.StartDate.Month(), h.StartDate.Day(), 0, 0, 0, 0, loc)
		end := time.Date(h.EndDate.Year(), h.EndDate.Month(), h.EndDate.Day(), 0, 0, 0, 0, loc)
		if end.Before(start) {
			end = start
		}
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end.AddDate(0, 0, 1))
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	log.Info("ics export completed", "events", len(events), "holidays", len(holidays))
	return nil
}

// UID is stable for a kind and id, so re-exports update rather than
// duplicate entries in subscribing calendars.
func UID(kind string, id int) string {
	name := "timelink:" + kind + ":" + strconv.Itoa(id)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func ruleFor(e model.Event, loc *time.Location) (string, bool) {
	if !e.IsRecurring {
		return "", false
	}
	opt := rrule.ROption{Interval: e.RecurrenceInterval}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	switch e.RecurrencePattern {
	case model.PatternDaily:
		opt.Freq = rrule.DAILY
	case model.PatternWeekly:
		opt.Freq = rrule.WEEKLY
		days := e.RecurrenceDay
		if len(days) == 0 {
			days = []int{int(e.Date.Weekday())}
		}
		for _, d := range days {
			if d >= 0 && d < len(sundayFirst) {
				opt.Byweekday = append(opt.Byweekday, sundayFirst[d])
			}
		}
	case model.PatternMonthly:
		opt.Freq = rrule.MONTHLY
	case model.PatternYearly:
		opt.Freq = rrule.YEARLY
	default:
		return "", false
	}
	if e.RecurrenceEndDate != nil {
		end := *e.RecurrenceEndDate
		opt.Until = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	}
	return opt.RRuleString(), true
}

// clockOn places an "HH:MM" time on day. ok is false for blank or
// malformed values.
func clockOn(day time.Time, hhmm string) (time.Time, bool) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}
