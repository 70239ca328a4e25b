// Package routine rolls routines over into a new tracking period and keeps
// task completion and streaks consistent. Functions never modify their
// input; they return new records for the caller to commit.
package routine

import (
	"math"
	"time"

	"timelink/internal/model"
)

// PeriodRolledOver reports whether now falls in a different period than
// lastReset. A routine that was never reset always rolls over.
func PeriodRolledOver(lastReset *time.Time, f model.Frequency, now time.Time) bool {
	if lastReset == nil {
		return true
	}
	last := *lastReset

	switch f {
	case model.FrequencyDaily:
		return !sameDay(now, last)
	case model.FrequencyWeekly:
		return now.Year() != last.Year() || WeekNumber(now) != WeekNumber(last)
	case model.FrequencyMonthly:
		return now.Year() != last.Year() || now.Month() != last.Month()
	default:
		return false
	}
}

// WeekNumber is ceil((daysSinceJan1 + jan1Weekday + 1) / 7), where
// daysSinceJan1 is the fractional number of days elapsed since midnight on
// January 1st in t's location. Week boundaries fall at the start of
// Saturday, so a week runs from just after Saturday 00:00 to the next
// Saturday 00:00 inclusive. This is not ISO 8601 numbering; stored routines
// depend on it.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	past := float64(t.Sub(jan1)) / float64(24*time.Hour)
	return int(math.Ceil((past + float64(jan1.Weekday()) + 1) / 7))
}

// ApplyRollover closes the current period of r. The streak grows when every
// task was completed, drops to zero otherwise, and is left alone on the very
// first rollover. All tasks come back incomplete and unlocked.
func ApplyRollover(r model.Routine, now time.Time) model.Routine {
	out := r.Clone()

	allCompleted := true
	for _, t := range r.Tasks {
		if !t.Completed {
			allCompleted = false
			break
		}
	}

	switch {
	case allCompleted:
		out.Streak = r.Streak + 1
		out.LastStreakUpdate = model.TimePtr(now)
	case r.LastResetDate != nil:
		out.Streak = 0
	}

	for i := range out.Tasks {
		out.Tasks[i].Completed = false
		out.Tasks[i].CompletedDate = nil
		out.Tasks[i].Locked = false
	}
	out.Progress = 0
	out.LastResetDate = model.TimePtr(now)
	return out
}

// ToggleTask flips the completion of one task. Completing a task locks it;
// a locked completed task is left as is and r is returned unchanged, as it
// is for an unknown task id.
func ToggleTask(r model.Routine, taskID int, now time.Time) model.Routine {
	idx := -1
	for i, t := range r.Tasks {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r
	}
	if t := r.Tasks[idx]; t.Completed && t.Locked {
		return r
	}

	out := r.Clone()
	t := &out.Tasks[idx]
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedDate = model.TimePtr(now)
		t.Locked = true
	} else {
		t.CompletedDate = nil
		t.Locked = false
	}
	out.Progress = Progress(out.Tasks)
	return out
}

// Progress is the rounded percentage of completed tasks; 0 with no tasks.
func Progress(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// CheckAndReset rolls over every routine whose period has ended and returns
// the new slice along with how many were reset.
func CheckAndReset(routines []model.Routine, now time.Time) ([]model.Routine, int) {
	out := make([]model.Routine, len(routines))
	reset := 0
	for i, r := range routines {
		if PeriodRolledOver(r.LastResetDate, r.Frequency, now) {
			out[i] = ApplyRollover(r, now)
			reset++
			continue
		}
		out[i] = r
	}
	return out, reset
}

// ResetAll wipes progress and streaks of every routine. LastResetDate is kept
// so the next scheduled rollover does not count as a first start.
func ResetAll(routines []model.Routine) []model.Routine {
	out := make([]model.Routine, len(routines))
	for i, r := range routines {
		c := r.Clone()
		c.Streak = 0
		c.Progress = 0
		c.LastStreakUpdate = nil
		for j := range c.Tasks {
			c.Tasks[j].Completed = false
			c.Tasks[j].CompletedDate = nil
			c.Tasks[j].Locked = false
		}
		out[i] = c
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
