package routine

import (
	"time"

	"timelink/internal/model"
)

// DefaultGoal is the goal period offered for a new routine.
func DefaultGoal(f model.Frequency) (int, model.GoalUnit) {
	switch f {
	case model.FrequencyWeekly:
		return 12, model.GoalWeeks
	case model.FrequencyMonthly:
		return 6, model.GoalMonths
	default:
		return 30, model.GoalDays
	}
}

// AdjustGoal keeps an edited routine's goal when it still makes sense for
// the new frequency and falls back to the default otherwise.
func AdjustGoal(f model.Frequency, period int) (int, model.GoalUnit) {
	def, unit := DefaultGoal(f)
	limit := 90
	switch f {
	case model.FrequencyWeekly:
		limit = 52
	case model.FrequencyMonthly:
		limit = 24
	}
	if period <= 0 || period > limit {
		return def, unit
	}
	return period, unit
}

// NextResetText describes when the routine's tasks reset next.
func NextResetText(f model.Frequency, lastReset *time.Time) string {
	if lastReset == nil {
		return "Not yet started"
	}
	switch f {
	case model.FrequencyDaily:
		return "Resets tomorrow at midnight"
	case model.FrequencyWeekly:
		return "Resets next " + lastReset.AddDate(0, 0, 7).Weekday().String()
	case model.FrequencyMonthly:
		return "Resets on " + lastReset.AddDate(0, 1, 0).Format("January 2")
	default:
		return "Unknown reset schedule"
	}
}
