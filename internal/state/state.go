// Package state owns the in-memory collections, applies the recurrence and
// routine engines to them and persists every change through a Repository.
package state

import (
	"errors"
	"strings"
	"sync"
	"time"

	"timelink/internal/log"
	"timelink/internal/model"
	"timelink/internal/routine"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyTitle = errors.New("title is required")
	ErrNoTasks    = errors.New("routine needs at least one task")
)

const defaultAutoDeleteAfterDays = 3

// Repository is the persistence the store writes through to.
type Repository interface {
	LoadEvents() ([]model.Event, bool, error)
	SaveEvents([]model.Event) error
	LoadHolidays() ([]model.Holiday, bool, error)
	SaveHolidays([]model.Holiday) error
	LoadRoutines() ([]model.Routine, bool, error)
	SaveRoutines([]model.Routine) error
	LoadWardrobe() (model.Wardrobe, bool, error)
	SaveWardrobe(model.Wardrobe) error
	LoadSettings() (model.UserSettings, bool, error)
	SaveSettings(model.UserSettings) error
}

type Store struct {
	mu   sync.Mutex
	repo Repository
	now  func() time.Time

	autoDeleteAfterDays int

	events   []model.Event
	holidays []model.Holiday
	routines []model.Routine
	wardrobe model.Wardrobe
	settings model.UserSettings
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAutoDeleteAfterDays sets how many days past its date a one-off event
// is kept. Values below zero are ignored.
func WithAutoDeleteAfterDays(days int) Option {
	return func(s *Store) {
		if days >= 0 {
			s.autoDeleteAfterDays = days
		}
	}
}

func New(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:                repo,
		now:                 time.Now,
		autoDeleteAfterDays: defaultAutoDeleteAfterDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}

// LoadResult summarizes a Load. Empty is true when nothing has ever been
// saved for events, holidays and routines.
type LoadResult struct {
	Empty         bool
	Swept         int
	RoutinesReset int
}

// Load reads every collection, drops expired one-off events and rolls
// routines over. A collection that fails to load keeps its current value.
func (s *Store) Load() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	anyFound := false
	if events, found, err := s.repo.LoadEvents(); err != nil {
		log.Error("load events", err)
	} else if found {
		anyFound = true
		s.events = events
		for i := range s.events {
			s.events[i].Normalize()
		}
	}
	if holidays, found, err := s.repo.LoadHolidays(); err != nil {
		log.Error("load holidays", err)
	} else if found {
		anyFound = true
		s.holidays = holidays
		for i := range s.holidays {
			s.holidays[i].Normalize()
		}
	}
	if routines, found, err := s.repo.LoadRoutines(); err != nil {
		log.Error("load routines", err)
	} else if found {
		anyFound = true
		s.routines = routines
	}
	if w, found, err := s.repo.LoadWardrobe(); err != nil {
		log.Error("load wardrobe", err)
	} else if found {
		s.wardrobe = w
	}
	if settings, found, err := s.repo.LoadSettings(); err != nil {
		log.Error("load settings", err)
	} else if found {
		s.settings = settings
	}

	now := s.now()
	res := LoadResult{Empty: !anyFound}
	res.Swept = s.sweepLocked(now)
	res.RoutinesReset = s.checkAndResetLocked(now)
	log.Info("state loaded",
		"events", len(s.events),
		"holidays", len(s.holidays),
		"routines", len(s.routines),
		"swept", res.Swept,
		"reset", res.RoutinesReset,
	)
	return res
}

// SeedData is what a first run starts with.
type SeedData struct {
	Holidays []model.Holiday
	Routines []model.Routine
	Wardrobe model.Wardrobe
	Settings model.UserSettings
}

// Seed fills collections that are still empty and persists them.
func (s *Store) Seed(data SeedData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.holidays) == 0 && len(data.Holidays) > 0 {
		s.holidays = append([]model.Holiday(nil), data.Holidays...)
		for i := range s.holidays {
			s.holidays[i].Normalize()
		}
		s.saveHolidays()
	}
	if len(s.routines) == 0 && len(data.Routines) > 0 {
		now := s.now()
		s.routines = make([]model.Routine, 0, len(data.Routines))
		for _, r := range data.Routines {
			r = r.Clone()
			if r.LastResetDate == nil {
				r.LastResetDate = model.TimePtr(now)
			}
			r.Progress = routine.Progress(r.Tasks)
			s.routines = append(s.routines, r)
		}
		s.saveRoutines()
	}
	if len(s.wardrobe.Categories) == 0 && len(data.Wardrobe.Categories) > 0 {
		s.wardrobe = data.Wardrobe
		s.saveWardrobe()
	}
	if s.settings.Profile.Name == "" && data.Settings.Profile.Name != "" {
		s.settings = data.Settings
		s.saveSettings()
	}
}

func (s *Store) Settings() model.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Store) UpdateSettings(settings model.UserSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saveSettings()
}

func (s *Store) Wardrobe() model.Wardrobe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wardrobe
}

// SetWardrobe replaces all three wardrobe collections.
func (s *Store) SetWardrobe(w model.Wardrobe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wardrobe = w
	s.saveWardrobe()
}

func (s *Store) saveEvents() {
	if err := s.repo.SaveEvents(s.events); err != nil {
		log.Error("save events", err, "count", len(s.events))
	}
}

func (s *Store) saveHolidays() {
	if err := s.repo.SaveHolidays(s.holidays); err != nil {
		log.Error("save holidays", err, "count", len(s.holidays))
	}
}

func (s *Store) saveRoutines() {
	if err := s.repo.SaveRoutines(s.routines); err != nil {
		log.Error("save routines", err, "count", len(s.routines))
	}
}

func (s *Store) saveWardrobe() {
	if err := s.repo.SaveWardrobe(s.wardrobe); err != nil {
		log.Error("save wardrobe", err)
	}
}

func (s *Store) saveSettings() {
	if err := s.repo.SaveSettings(s.settings); err != nil {
		log.Error("save settings", err)
	}
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}
