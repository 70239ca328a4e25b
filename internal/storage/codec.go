package storage

import (
	"strings"
	"time"

	"timelink/internal/log"
	"timelink/internal/model"
)

// isoLayout matches JavaScript's Date.prototype.toISOString, which is what
// the stored documents have always used.
const isoLayout = "2006-01-02T15:04:05.000Z"

type mapLocationRecord struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type eventRecord struct {
	ID                 int                `json:"id"`
	Title              string             `json:"title"`
	Date               string             `json:"date"`
	StartTime          string             `json:"startTime"`
	EndTime            string             `json:"endTime"`
	Location           string             `json:"location"`
	Description        string             `json:"description"`
	Category           string             `json:"category"`
	MapLocation        *mapLocationRecord `json:"mapLocation,omitempty"`
	IsRecurring        bool               `json:"isRecurring"`
	RecurrencePattern  string             `json:"recurrencePattern,omitempty"`
	RecurrenceInterval int                `json:"recurrenceInterval,omitempty"`
	RecurrenceDay      []int              `json:"recurrenceDay,omitempty"`
	RecurrenceEndDate  *string            `json:"recurrenceEndDate"`
	SkipAutoDelete     bool               `json:"skipAutoDelete"`
	LastOccurrence     *string            `json:"lastOccurrence,omitempty"`
}

type holidayRecord struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

type taskRecord struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Completed     bool    `json:"completed"`
	CompletedDate *string `json:"completedDate,omitempty"`
	Locked        bool    `json:"locked"`
}

type routineRecord struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Icon             string       `json:"icon"`
	Streak           int          `json:"streak"`
	Frequency        string       `json:"frequency"`
	Goal             string       `json:"goal"`
	GoalPeriod       int          `json:"goalPeriod"`
	GoalUnit         string       `json:"goalUnit"`
	Description      string       `json:"description"`
	Tasks            []taskRecord `json:"tasks"`
	Progress         int          `json:"progress"`
	LastResetDate    *string      `json:"lastResetDate,omitempty"`
	LastStreakUpdate *string      `json:"lastStreakUpdate,omitempty"`
}

// dateCodec converts between stored ISO strings and time values in the
// display location. Unparseable dates become now(), never an error.
type dateCodec struct {
	loc *time.Location
	now func() time.Time
}

// dateLayouts follow how browsers read the same strings: a date-time
// without an offset is local time, a bare date is UTC.
var dateLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02", false},
}

func (c dateCodec) decode(field, s string) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		loc := time.UTC
		if l.local {
			loc = c.loc
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t.In(c.loc)
		}
	}
	log.Info("replacing invalid stored date with now", "field", field, "value", s)
	return c.now().In(c.loc)
}

// decodeOptional keeps missing, null and empty values as nil.
func (c dateCodec) decodeOptional(field string, s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t := c.decode(field, *s)
	return &t
}

func encodeDate(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func encodeOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := encodeDate(*t)
	return &s
}

func (c dateCodec) eventFromRecord(r eventRecord) model.Event {
	e := model.Event{
		ID:                 r.ID,
		Title:              r.Title,
		Date:               c.decode("event.date", r.Date),
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Location:           r.Location,
		Description:        r.Description,
		Category:           r.Category,
		IsRecurring:        r.IsRecurring,
		RecurrencePattern:  model.Pattern(r.RecurrencePattern),
		RecurrenceInterval: r.RecurrenceInterval,
		RecurrenceDay:      r.RecurrenceDay,
		RecurrenceEndDate:  c.decodeOptional("event.recurrenceEndDate", r.RecurrenceEndDate),
		SkipAutoDelete:     r.SkipAutoDelete,
		LastOccurrence:     c.decodeOptional("event.lastOccurrence", r.LastOccurrence),
	}
	if r.MapLocation != nil {
		e.MapLocation = &model.MapLocation{Lat: r.MapLocation.Lat, Lng: r.MapLocation.Lng, Address: r.MapLocation.Address}
	}
	return e
}

func eventToRecord(e model.Event) eventRecord {
	r := eventRecord{
		ID:                 e.ID,
		Title:              e.Title,
		Date:               encodeDate(e.Date),
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		Location:           e.Location,
		Description:        e.Description,
		Category:           e.Category,
		IsRecurring:        e.IsRecurring,
		RecurrencePattern:  string(e.RecurrencePattern),
		RecurrenceInterval: e.RecurrenceInterval,
		RecurrenceDay:      e.RecurrenceDay,
		RecurrenceEndDate:  encodeOptional(e.RecurrenceEndDate),
		SkipAutoDelete:     e.SkipAutoDelete,
		LastOccurrence:     encodeOptional(e.LastOccurrence),
	}
	if e.MapLocation != nil {
		r.MapLocation = &mapLocationRecord{Lat: e.MapLocation.Lat, Lng: e.MapLocation.Lng, Address: e.MapLocation.Address}
	}
	return r
}

func (c dateCodec) holidayFromRecord(r holidayRecord) model.Holiday {
	return model.Holiday{
		ID:          r.ID,
		Name:        r.Name,
		StartDate:   c.decode("holiday.startDate", r.StartDate),
		EndDate:     c.decode("holiday.endDate", r.EndDate),
		Icon:        r.Icon,
		Description: r.Description,
	}
}

func holidayToRecord(h model.Holiday) holidayRecord {
	return holidayRecord{
		ID:          h.ID,
		Name:        h.Name,
		StartDate:   encodeDate(h.StartDate),
		EndDate:     encodeDate(h.EndDate),
		Icon:        h.Icon,
		Description: h.Description,
	}
}

func (c dateCodec) routineFromRecord(r routineRecord) model.Routine {
	out := model.Routine{
		ID:               r.ID,
		Title:            r.Title,
		Icon:             r.Icon,
		Streak:           r.Streak,
		Frequency:        model.Frequency(r.Frequency),
		Goal:             r.Goal,
		GoalPeriod:       r.GoalPeriod,
		GoalUnit:         model.GoalUnit(r.GoalUnit),
		Description:      r.Description,
		Tasks:            make([]model.Task, 0, len(r.Tasks)),
		Progress:         r.Progress,
		LastResetDate:    c.decodeOptional("routine.lastResetDate", r.LastResetDate),
		LastStreakUpdate: c.decodeOptional("routine.lastStreakUpdate", r.LastStreakUpdate),
	}
	for _, t := range r.Tasks {
		out.Tasks = append(out.Tasks, model.Task{
			ID:            t.ID,
			Title:         t.Title,
			Completed:     t.Completed,
			CompletedDate: c.decodeOptional("task.completedDate", t.CompletedDate),
			Locked:        t.Locked,
		})
	}
	return out
}

func routineToRecord(r model.Routine) routineRecord {
	out := routineRecord{
		ID:               r.ID,
		Title:            r.Title,
		Icon:             r.Icon,
		Streak:           r.Streak,
		Frequency:        string(r.Frequency),
		Goal:             r.Goal,
		GoalPeriod:       r.GoalPeriod,
		GoalUnit:         string(r.GoalUnit),
		Description:      r.Description,
		Tasks:            make([]taskRecord, 0, len(r.Tasks)),
		Progress:         r.Progress,
		LastResetDate:    encodeOptional(r.LastResetDate),
		LastStreakUpdate: encodeOptional(r.LastStreakUpdate),
	}
	for _, t := range r.Tasks {
		out.Tasks = append(out.Tasks, taskRecord{
			ID:            t.ID,
			Title:         t.Title,
			Completed:     t.Completed,
			CompletedDate: encodeOptional(t.CompletedDate),
			Locked:        t.Locked,
		})
	}
	return out
}
