package ui

import (
	"fmt"
	"strings"
	"time"

	"timelink/internal/calendar"
	"timelink/internal/model"
	"timelink/internal/routine"
	"timelink/internal/state"
)

// Agenda renders day as plain text, for one-shot runs.
func Agenda(store *state.Store, day time.Time, mondayFirst bool) string {
	return render(store, day, mondayFirst, nil)
}

func render(store *state.Store, day time.Time, mondayFirst bool, cursor *row) string {
	now := store.Now()
	var b strings.Builder

	title := "Timelink • " + day.Format("Monday, January 2 2006")
	if calendar.SameDay(day, now) {
		title += " (today)"
	}
	b.WriteString(title)
	b.WriteString("\n")
	if h, ok := store.HolidayOn(day); ok {
		b.WriteString(fmt.Sprintf("Holiday: %s", h.Name))
		if h.Icon != "" {
			b.WriteString(" [" + h.Icon + "]")
		}
		b.WriteString("\n")
	}
	b.WriteString(renderWeek(weekStrip(store, day, mondayFirst), day))
	b.WriteString("\n\n")

	events := store.EventsOn(day)
	b.WriteString("Events\n")
	if len(events) == 0 {
		b.WriteString("  Nothing scheduled.\n")
	}
	for _, e := range events {
		selected := cursor != nil && cursor.kind == rowEvent && cursor.eventID == e.ID
		b.WriteString(marker(selected))
		b.WriteString(" ")
		b.WriteString(renderEvent(e))
		b.WriteString("\n")
	}

	routines := store.Routines()
	b.WriteString("\nRoutines\n")
	if len(routines) == 0 {
		b.WriteString("  No routines yet.\n")
	}
	for _, r := range routines {
		b.WriteString(fmt.Sprintf("  %s  %d%% • streak %d • %s\n",
			r.Title, r.Progress, r.Streak, routine.NextResetText(r.Frequency, r.LastResetDate)))
		for _, t := range r.Tasks {
			selected := cursor != nil && cursor.kind == rowTask && cursor.routineID == r.ID && cursor.taskID == t.ID
			b.WriteString("  ")
			b.WriteString(marker(selected))
			b.WriteString(" ")
			b.WriteString(renderTask(t))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func weekStrip(store *state.Store, day time.Time, mondayFirst bool) []calendar.DaySummary {
	if !mondayFirst {
		return store.WeekDays(day)
	}
	if day.Weekday() == time.Sunday {
		return append(store.WeekDays(day.AddDate(0, 0, -7))[1:], store.WeekDays(day)[0])
	}
	return append(store.WeekDays(day)[1:], store.WeekDays(day.AddDate(0, 0, 7))[0])
}

func renderWeek(days []calendar.DaySummary, selected time.Time) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		label := fmt.Sprintf("%s %2d", d.Date.Weekday().String()[:2], d.Date.Day())
		if n := len(d.Events); n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		if d.Holiday != nil {
			label += " *"
		}
		switch {
		case calendar.SameDay(d.Date, selected):
			label = "[" + label + "]"
		case d.IsToday:
			label = "<" + label + ">"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " | ")
}

func renderEvent(e model.Event) string {
	var b strings.Builder
	switch {
	case e.StartTime != "" && e.EndTime != "":
		b.WriteString(e.StartTime + "-" + e.EndTime + " ")
	case e.StartTime != "":
		b.WriteString(e.StartTime + " ")
	default:
		b.WriteString("all day ")
	}
	b.WriteString(e.Title)
	if e.Location != "" {
		b.WriteString(" @ " + e.Location)
	}
	if e.IsRecurring {
		b.WriteString(" (" + recurrenceLabel(e) + ")")
	}
	return b.String()
}

func recurrenceLabel(e model.Event) string {
	n := e.RecurrenceInterval
	if n <= 1 {
		return string(e.RecurrencePattern)
	}
	unit := map[model.Pattern]string{
		model.PatternDaily:   "days",
		model.PatternWeekly:  "weeks",
		model.PatternMonthly: "months",
		model.PatternYearly:  "years",
	}[e.RecurrencePattern]
	return fmt.Sprintf("every %d %s", n, unit)
}

func renderTask(t model.Task) string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}
	s := checkbox + " " + t.Title
	if t.Completed && t.Locked {
		s += " (locked)"
	}
	return s
}

func marker(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}
