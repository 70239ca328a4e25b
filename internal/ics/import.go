package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"timelink/internal/log"
	"timelink/internal/model"
)

// Import reads VEVENTs from r. Entries categorised as HOLIDAY become
// holidays; the rest become events. IDs are left zero for the caller to
// assign. VEVENTs without a usable DTSTART are skipped.
func Import(r io.Reader, loc *time.Location) ([]model.Event, []model.Holiday, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse calendar: %w", err)
	}

	var events []model.Event
	var holidays []model.Holiday
	for _, ve := range cal.Events() {
		uid := propValue(ve, ical.ComponentPropertyUniqueId)
		start, allDay, err := startOf(ve, loc)
		if err != nil {
			log.Error("ics vevent skipped", err, "uid", uid)
			continue
		}
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

		if isHoliday(ve) {
			holidays = append(holidays, holidayFrom(ve, day, loc))
			continue
		}

		e := model.Event{
			Title:       propValue(ve, ical.ComponentPropertySummary),
			Date:        day,
			Description: propValue(ve, ical.ComponentPropertyDescription),
			Location:    propValue(ve, ical.ComponentPropertyLocation),
			Category:    propValue(ve, ical.ComponentPropertyCategories),
		}
		if !allDay {
			e.StartTime = start.Format("15:04")
			if end, err := ve.GetEndAt(); err == nil && !end.IsZero() {
				e.EndTime = end.In(loc).Format("15:04")
			}
		}
		if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
			applyRule(&e, raw, uid, loc)
		}
		e.Normalize()
		events = append(events, e)
	}
	log.Info("ics import completed", "events", len(events), "holidays", len(holidays))
	return events, holidays, nil
}

func startOf(ve *ical.VEvent, loc *time.Location) (time.Time, bool, error) {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil || strings.TrimSpace(prop.Value) == "" {
		return time.Time{}, false, errors.New("missing DTSTART")
	}
	if isDateValue(prop) {
		t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(prop.Value), loc)
		return t, true, err
	}
	t, err := ve.GetStartAt()
	if err != nil {
		return time.Time{}, false, err
	}
	return t.In(loc), false, nil
}

func isDateValue(prop *ical.IANAProperty) bool {
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

func isHoliday(ve *ical.VEvent) bool {
	for _, c := range strings.Split(propValue(ve, ical.ComponentPropertyCategories), ",") {
		if strings.EqualFold(strings.TrimSpace(c), HolidayCategory) {
			return true
		}
	}
	return false
}

// holidayFrom treats DTEND as exclusive, as all-day VEVENTs do.
func holidayFrom(ve *ical.VEvent, start time.Time, loc *time.Location) model.Holiday {
	h := model.Holiday{
		Name:        propValue(ve, ical.ComponentPropertySummary),
		StartDate:   start,
		EndDate:     start,
		Description: propValue(ve, ical.ComponentPropertyDescription),
	}
	if prop := ve.GetProperty(ical.ComponentPropertyDtEnd); prop != nil {
		if end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(prop.Value), loc); err == nil {
			h.EndDate = end.AddDate(0, 0, -1)
		}
	}
	h.Normalize()
	return h
}

func applyRule(e *model.Event, raw, uid string, loc *time.Location) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		log.Error("ics rrule ignored", err, "uid", uid, "rrule", raw)
		return
	}
	switch opt.Freq {
	case rrule.DAILY:
		e.RecurrencePattern = model.PatternDaily
	case rrule.WEEKLY:
		e.RecurrencePattern = model.PatternWeekly
		for _, wd := range opt.Byweekday {
			e.RecurrenceDay = append(e.RecurrenceDay, (wd.Day()+1)%7)
		}
	case rrule.MONTHLY:
		e.RecurrencePattern = model.PatternMonthly
	case rrule.YEARLY:
		e.RecurrencePattern = model.PatternYearly
	default:
		log.Info("ics rrule frequency unsupported, importing single occurrence", "uid", uid, "freq", opt.Freq.String())
		return
	}
	e.IsRecurring = true
	e.RecurrenceInterval = opt.Interval
	if !opt.Until.IsZero() {
		until := opt.Until.In(loc)
		end := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, loc)
		e.RecurrenceEndDate = &end
	}
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}
