package model

import "time"

// Pattern is the unit an event repeats by.
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
	PatternYearly  Pattern = "yearly"
)

// Frequency is the tracking period of a routine.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type GoalUnit string

const (
	GoalDays   GoalUnit = "days"
	GoalWeeks  GoalUnit = "weeks"
	GoalMonths GoalUnit = "months"
)

// Event is a calendar entry. Date is the anchor: the first day it can occur.
// StartTime and EndTime are "HH:MM" strings and never influence recurrence.
type Event struct {
	ID          int
	Title       string
	Date        time.Time
	StartTime   string
	EndTime     string
	Location    string
	Description string
	Category    string
	MapLocation *MapLocation

	IsRecurring        bool
	RecurrencePattern  Pattern
	RecurrenceInterval int
	// RecurrenceDay holds weekday indices, 0=Sunday..6=Saturday. Weekly only.
	RecurrenceDay []int
	// RecurrenceEndDate is inclusive; nil means the event repeats forever.
	RecurrenceEndDate *time.Time
	SkipAutoDelete    bool
	LastOccurrence    *time.Time
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Event) Clone() Event {
	out := e
	if e.RecurrenceDay != nil {
		out.RecurrenceDay = append([]int(nil), e.RecurrenceDay...)
	}
	out.RecurrenceEndDate = cloneTime(e.RecurrenceEndDate)
	out.LastOccurrence = cloneTime(e.LastOccurrence)
	if e.MapLocation != nil {
		loc := *e.MapLocation
		out.MapLocation = &loc
	}
	return out
}

type MapLocation struct {
	Lat     float64
	Lng     float64
	Address string
}

// Normalize applies the save-time clamps: a recurring event always has an
// interval of at least one, and a weekly event always has at least one day.
func (e *Event) Normalize() {
	if !e.IsRecurring {
		return
	}
	if e.RecurrenceInterval < 1 {
		e.RecurrenceInterval = 1
	}
	if e.RecurrencePattern == PatternWeekly && len(e.RecurrenceDay) == 0 {
		e.RecurrenceDay = []int{int(e.Date.Weekday())}
	}
}

// HasRecurrenceDay reports whether wd is one of the weekly days, falling back
// to the anchor weekday when none are set.
func (e Event) HasRecurrenceDay(wd time.Weekday) bool {
	if len(e.RecurrenceDay) == 0 {
		return e.Date.Weekday() == wd
	}
	for _, d := range e.RecurrenceDay {
		if d == int(wd) {
			return true
		}
	}
	return false
}

type Holiday struct {
	ID          int
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Icon        string
	Description string
}

// Normalize clamps EndDate so the range is never inverted.
func (h *Holiday) Normalize() {
	if h.EndDate.Before(h.StartDate) {
		h.EndDate = h.StartDate
	}
}

type Task struct {
	ID            int
	Title         string
	Completed     bool
	CompletedDate *time.Time
	// Locked is set when a task is completed; only a period reset clears it.
	Locked bool
}

type Routine struct {
	ID          int
	Title       string
	Icon        string
	Streak      int
	Frequency   Frequency
	Goal        string
	GoalPeriod  int
	GoalUnit    GoalUnit
	Description string
	Tasks       []Task
	Progress    int

	LastResetDate    *time.Time
	LastStreakUpdate *time.Time
}

// Clone returns a copy that shares no slices or pointers with r.
func (r Routine) Clone() Routine {
	out := r
	out.Tasks = make([]Task, len(r.Tasks))
	for i, t := range r.Tasks {
		t.CompletedDate = cloneTime(t.CompletedDate)
		out.Tasks[i] = t
	}
	out.LastResetDate = cloneTime(r.LastResetDate)
	out.LastStreakUpdate = cloneTime(r.LastStreakUpdate)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NextID returns max(ids, 0) + 1.
func NextID(ids []int) int {
	highest := 0
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// TimePtr is a small helper for optional dates.
func TimePtr(t time.Time) *time.Time {
	return &t
}
