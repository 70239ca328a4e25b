package state

import (
	"strings"
	"time"

	"timelink/internal/log"
	"timelink/internal/model"
	"timelink/internal/routine"
)

// AddRoutine creates a routine whose first period starts now. Blank task
// titles are dropped; at least one task must remain.
func (s *Store) AddRoutine(title string, freq model.Frequency, taskTitles []string) (model.Routine, error) {
	title, err := requireTitle(title)
	if err != nil {
		return model.Routine{}, err
	}
	var tasks []model.Task
	for _, t := range taskTitles {
		if t = strings.TrimSpace(t); t != "" {
			tasks = append(tasks, model.Task{ID: len(tasks) + 1, Title: t})
		}
	}
	if len(tasks) == 0 {
		return model.Routine{}, ErrNoTasks
	}
	freq = frequencyOrDaily(freq)

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.routines))
	for i, r := range s.routines {
		ids[i] = r.ID
	}
	period, unit := routine.DefaultGoal(freq)
	r := model.Routine{
		ID:            model.NextID(ids),
		Title:         title,
		Frequency:     freq,
		GoalPeriod:    period,
		GoalUnit:      unit,
		Tasks:         tasks,
		LastResetDate: model.TimePtr(s.now()),
	}
	s.routines = append(s.routines, r)
	s.saveRoutines()
	return r.Clone(), nil
}

// UpdateRoutine replaces the routine with the same id. New tasks (id 0) get
// the next free task id, progress is recomputed and the goal is brought
// back into range for the frequency.
func (s *Store) UpdateRoutine(r model.Routine) (model.Routine, error) {
	title, err := requireTitle(r.Title)
	if err != nil {
		return model.Routine{}, err
	}
	r = r.Clone()
	r.Title = title

	var tasks []model.Task
	for _, t := range r.Tasks {
		if t.Title = strings.TrimSpace(t.Title); t.Title != "" {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == 0 {
		return model.Routine{}, ErrNoTasks
	}
	ids := make([]int, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	for i := range tasks {
		if tasks[i].ID == 0 {
			tasks[i].ID = model.NextID(ids)
			ids = append(ids, tasks[i].ID)
		}
	}
	r.Tasks = tasks
	r.Frequency = frequencyOrDaily(r.Frequency)
	r.GoalPeriod, r.GoalUnit = routine.AdjustGoal(r.Frequency, r.GoalPeriod)
	r.Progress = routine.Progress(r.Tasks)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.routineIndex(r.ID)
	if i < 0 {
		return model.Routine{}, ErrNotFound
	}
	s.routines[i] = r
	s.saveRoutines()
	return r.Clone(), nil
}

func (s *Store) DeleteRoutine(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.routineIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.routines = append(s.routines[:i:i], s.routines[i+1:]...)
	s.saveRoutines()
	return nil
}

func (s *Store) Routines() []model.Routine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Routine, len(s.routines))
	for i, r := range s.routines {
		out[i] = r.Clone()
	}
	return out
}

// ToggleTask flips one task of a routine. A locked completed task stays
// as it is; that is not an error.
func (s *Store) ToggleTask(routineID, taskID int) (model.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.routineIndex(routineID)
	if i < 0 {
		return model.Routine{}, ErrNotFound
	}
	found := false
	for _, t := range s.routines[i].Tasks {
		if t.ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return model.Routine{}, ErrNotFound
	}
	before := s.routines[i]
	after := routine.ToggleTask(before, taskID, s.now())
	if sameTasks(before.Tasks, after.Tasks) {
		return before.Clone(), nil
	}
	s.routines[i] = after
	s.saveRoutines()
	return after.Clone(), nil
}

// CheckAndResetRoutines rolls over every routine whose period ended and
// returns how many were reset.
func (s *Store) CheckAndResetRoutines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkAndResetLocked(s.now())
}

func (s *Store) checkAndResetLocked(now time.Time) int {
	routines, n := routine.CheckAndReset(s.routines, now)
	if n == 0 {
		return 0
	}
	s.routines = routines
	s.saveRoutines()
	log.Info("routines rolled over", "count", n)
	return n
}

// ResetAllRoutines clears streaks and progress of every routine.
func (s *Store) ResetAllRoutines() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines = routine.ResetAll(s.routines)
	s.saveRoutines()
}

func (s *Store) routineIndex(id int) int {
	for i, r := range s.routines {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func frequencyOrDaily(f model.Frequency) model.Frequency {
	switch f {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
		return f
	}
	return model.FrequencyDaily
}

func sameTasks(a, b []model.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Completed != b[i].Completed || a[i].Locked != b[i].Locked {
			return false
		}
	}
	return true
}
