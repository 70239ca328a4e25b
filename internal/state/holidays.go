package state

import (
	"time"

	"timelink/internal/calendar"
	"timelink/internal/model"
)

func (s *Store) AddHoliday(h model.Holiday) (model.Holiday, error) {
	name, err := requireTitle(h.Name)
	if err != nil {
		return model.Holiday{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.holidays))
	for i, existing := range s.holidays {
		ids[i] = existing.ID
	}
	h.Name = name
	h.ID = model.NextID(ids)
	h.Normalize()
	s.holidays = append(s.holidays, h)
	s.saveHolidays()
	return h, nil
}

func (s *Store) UpdateHoliday(h model.Holiday) (model.Holiday, error) {
	name, err := requireTitle(h.Name)
	if err != nil {
		return model.Holiday{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.holidayIndex(h.ID)
	if i < 0 {
		return model.Holiday{}, ErrNotFound
	}
	h.Name = name
	h.Normalize()
	s.holidays[i] = h
	s.saveHolidays()
	return h, nil
}

func (s *Store) DeleteHoliday(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.holidayIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.holidays = append(s.holidays[:i:i], s.holidays[i+1:]...)
	s.saveHolidays()
	return nil
}

func (s *Store) Holidays() []model.Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Holiday(nil), s.holidays...)
}

func (s *Store) HolidayOn(date time.Time) (model.Holiday, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.HolidayOn(s.holidays, date)
}

func (s *Store) holidayIndex(id int) int {
	for i, h := range s.holidays {
		if h.ID == id {
			return i
		}
	}
	return -1
}
