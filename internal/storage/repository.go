package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"timelink/internal/model"
)

// Keys of the stored documents. They match the keys the browser build wrote
// so existing exports can be imported as-is.
const (
	KeyEvents             = "timelink_events"
	KeyHolidays           = "timelink_holidays"
	KeyRoutines           = "timelink_routines"
	KeyWardrobeCategories = "timelink_wardrobe_categories"
	KeyWardrobeItems      = "timelink_wardrobe_items"
	KeyOutfits            = "timelink_outfits"
	KeyUserSettings       = "timelink_user_settings"
)

// KV is the minimal key-value surface the repository needs.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Repository loads and saves whole collections as JSON documents.
// Every Load reports found=false when its key has never been written.
type Repository struct {
	kv    KV
	dates dateCodec
}

type RepositoryOption func(*Repository)

// WithLocation sets the zone loaded dates are converted into.
func WithLocation(loc *time.Location) RepositoryOption {
	return func(r *Repository) {
		if loc != nil {
			r.dates.loc = loc
		}
	}
}

// WithClock sets the source of "now" used for unparseable dates.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.dates.now = now
		}
	}
}

func NewRepository(kv KV, opts ...RepositoryOption) *Repository {
	r := &Repository{
		kv:    kv,
		dates: dateCodec{loc: time.Local, now: time.Now},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) LoadEvents() ([]model.Event, bool, error) {
	var records []eventRecord
	found, err := r.load(KeyEvents, &records)
	if err != nil || !found {
		return nil, found, err
	}
	events := make([]model.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, r.dates.eventFromRecord(rec))
	}
	return events, true, nil
}

func (r *Repository) SaveEvents(events []model.Event) error {
	records := make([]eventRecord, 0, len(events))
	for _, e := range events {
		records = append(records, eventToRecord(e))
	}
	return r.save(KeyEvents, records)
}

func (r *Repository) LoadHolidays() ([]model.Holiday, bool, error) {
	var records []holidayRecord
	found, err := r.load(KeyHolidays, &records)
	if err != nil || !found {
		return nil, found, err
	}
	holidays := make([]model.Holiday, 0, len(records))
	for _, rec := range records {
		holidays = append(holidays, r.dates.holidayFromRecord(rec))
	}
	return holidays, true, nil
}

func (r *Repository) SaveHolidays(holidays []model.Holiday) error {
	records := make([]holidayRecord, 0, len(holidays))
	for _, h := range holidays {
		records = append(records, holidayToRecord(h))
	}
	return r.save(KeyHolidays, records)
}

func (r *Repository) LoadRoutines() ([]model.Routine, bool, error) {
	var records []routineRecord
	found, err := r.load(KeyRoutines, &records)
	if err != nil || !found {
		return nil, found, err
	}
	routines := make([]model.Routine, 0, len(records))
	for _, rec := range records {
		routines = append(routines, r.dates.routineFromRecord(rec))
	}
	return routines, true, nil
}

func (r *Repository) SaveRoutines(routines []model.Routine) error {
	records := make([]routineRecord, 0, len(routines))
	for _, rt := range routines {
		records = append(records, routineToRecord(rt))
	}
	return r.save(KeyRoutines, records)
}

// LoadWardrobe reads the three wardrobe keys. found is true when any of
// them exists; missing parts stay nil.
func (r *Repository) LoadWardrobe() (model.Wardrobe, bool, error) {
	var w model.Wardrobe
	foundCats, err := r.load(KeyWardrobeCategories, &w.Categories)
	if err != nil {
		return w, false, err
	}
	foundItems, err := r.load(KeyWardrobeItems, &w.Items)
	if err != nil {
		return w, false, err
	}
	foundOutfits, err := r.load(KeyOutfits, &w.Outfits)
	if err != nil {
		return w, false, err
	}
	return w, foundCats || foundItems || foundOutfits, nil
}

func (r *Repository) SaveWardrobe(w model.Wardrobe) error {
	if err := r.save(KeyWardrobeCategories, w.Categories); err != nil {
		return err
	}
	items := w.Items
	if items == nil {
		items = map[string][]model.WardrobeItem{}
	}
	if err := r.save(KeyWardrobeItems, items); err != nil {
		return err
	}
	return r.save(KeyOutfits, w.Outfits)
}

func (r *Repository) LoadSettings() (model.UserSettings, bool, error) {
	var s model.UserSettings
	found, err := r.load(KeyUserSettings, &s)
	return s, found, err
}

func (r *Repository) SaveSettings(s model.UserSettings) error {
	return r.save(KeyUserSettings, s)
}

func (r *Repository) load(key string, dst any) (bool, error) {
	raw, found, err := r.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Put(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
