package state

import (
	"time"

	"timelink/internal/calendar"
	"timelink/internal/log"
	"timelink/internal/model"
)

// AddEvent stores e under a fresh id and returns the saved copy.
func (s *Store) AddEvent(e model.Event) (model.Event, error) {
	title, err := requireTitle(e.Title)
	if err != nil {
		return model.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e = e.Clone()
	e.Title = title
	e.ID = model.NextID(eventIDs(s.events))
	e.Normalize()
	s.events = append(s.events, e)
	s.saveEvents()
	return e.Clone(), nil
}

func (s *Store) UpdateEvent(e model.Event) (model.Event, error) {
	title, err := requireTitle(e.Title)
	if err != nil {
		return model.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(e.ID)
	if i < 0 {
		return model.Event{}, ErrNotFound
	}
	e = e.Clone()
	e.Title = title
	e.Normalize()
	s.events[i] = e
	s.saveEvents()
	return e.Clone(), nil
}

func (s *Store) DeleteEvent(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.events = append(s.events[:i:i], s.events[i+1:]...)
	s.saveEvents()
	return nil
}

func (s *Store) Event(id int) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.eventIndex(id)
	if i < 0 {
		return model.Event{}, false
	}
	return s.events[i].Clone(), true
}

func (s *Store) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(s.events)
}

// EventsOn lists what happens on date, recurring events expanded, ordered
// by start time.
func (s *Store) EventsOn(date time.Time) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(calendar.SortByStartTime(calendar.EventsOnDate(s.events, date)))
}

func (s *Store) SearchEvents(query string) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(calendar.Search(s.events, query))
}

func (s *Store) YearOverview(year int) []calendar.MonthSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.YearOverview(s.events, s.holidays, year, s.now())
}

func (s *Store) MonthDays(year int, month time.Month) []calendar.DaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.MonthDays(s.events, s.holidays, year, month, s.now())
}

func (s *Store) WeekDays(day time.Time) []calendar.DaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.WeekDays(s.events, s.holidays, day, s.now())
}

// SweepExpiredEvents deletes one-off events dated before now minus the
// configured number of days, unless they opted out. The cutoff keeps now's
// time of day. It returns how many were removed.
func (s *Store) SweepExpiredEvents(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

func (s *Store) sweepLocked(now time.Time) int {
	cutoff := now.AddDate(0, 0, -s.autoDeleteAfterDays)
	kept := s.events[:0:0]
	removed := 0
	for _, e := range s.events {
		if !e.IsRecurring && !e.SkipAutoDelete && e.Date.Before(cutoff) {
			log.Debug("auto-deleting past event", "id", e.ID, "title", e.Title, "date", e.Date.Format("2006-01-02"))
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed > 0 {
		s.events = kept
		s.saveEvents()
	}
	return removed
}

func (s *Store) eventIndex(id int) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func eventIDs(events []model.Event) []int {
	ids := make([]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

// cloneEvents copies events so callers never share state with the store.
func cloneEvents(events []model.Event) []model.Event {
	if events == nil {
		return nil
	}
	out := make([]model.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}
