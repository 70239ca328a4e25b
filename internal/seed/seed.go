// Package seed provides the data a first run starts with.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"timelink/internal/model"
	"timelink/internal/routine"
	"timelink/internal/state"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type document struct {
	Holidays []struct {
		Name        string `yaml:"name"`
		Start       string `yaml:"start"`
		End         string `yaml:"end"`
		Icon        string `yaml:"icon"`
		Description string `yaml:"description"`
	} `yaml:"holidays"`
	Routines []struct {
		Title       string          `yaml:"title"`
		Icon        string          `yaml:"icon"`
		Frequency   model.Frequency `yaml:"frequency"`
		Goal        string          `yaml:"goal"`
		GoalPeriod  int             `yaml:"goal_period"`
		Description string          `yaml:"description"`
		Tasks       []string        `yaml:"tasks"`
	} `yaml:"routines"`
	WardrobeCategories []model.WardrobeCategory `yaml:"wardrobe_categories"`
	Settings           struct {
		Name               string `yaml:"name"`
		Email              string `yaml:"email"`
		RoutineReminders   bool   `yaml:"routine_reminders"`
		CalendarAlerts     bool   `yaml:"calendar_alerts"`
		EmailNotifications bool   `yaml:"email_notifications"`
		DarkMode           bool   `yaml:"dark_mode"`
		Theme              string `yaml:"theme"`
		FontSize           string `yaml:"font_size"`
		Weather            string `yaml:"weather"`
		CalendarView       string `yaml:"calendar_view"`
	} `yaml:"settings"`
}

// Defaults decodes the embedded defaults with holiday dates at midnight in
// loc. Routines carry no reset date; the store starts their period.
func Defaults(loc *time.Location) (state.SeedData, error) {
	return decode(defaultsYAML, loc)
}

func decode(data []byte, loc *time.Location) (state.SeedData, error) {
	if loc == nil {
		loc = time.Local
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return state.SeedData{}, fmt.Errorf("decode seed: %w", err)
	}

	var out state.SeedData
	for i, h := range doc.Holidays {
		start, err := time.ParseInLocation("2006-01-02", h.Start, loc)
		if err != nil {
			return state.SeedData{}, fmt.Errorf("holiday %q start: %w", h.Name, err)
		}
		end, err := time.ParseInLocation("2006-01-02", h.End, loc)
		if err != nil {
			return state.SeedData{}, fmt.Errorf("holiday %q end: %w", h.Name, err)
		}
		out.Holidays = append(out.Holidays, model.Holiday{
			ID:          i + 1,
			Name:        h.Name,
			StartDate:   start,
			EndDate:     end,
			Icon:        h.Icon,
			Description: h.Description,
		})
	}

	for i, r := range doc.Routines {
		period, unit := routine.AdjustGoal(r.Frequency, r.GoalPeriod)
		rt := model.Routine{
			ID:          i + 1,
			Title:       r.Title,
			Icon:        r.Icon,
			Frequency:   r.Frequency,
			Goal:        r.Goal,
			GoalPeriod:  period,
			GoalUnit:    unit,
			Description: r.Description,
		}
		for j, title := range r.Tasks {
			rt.Tasks = append(rt.Tasks, model.Task{ID: j + 1, Title: title})
		}
		out.Routines = append(out.Routines, rt)
	}

	out.Wardrobe = model.Wardrobe{
		Categories: doc.WardrobeCategories,
		Items:      map[string][]model.WardrobeItem{},
		Outfits:    []model.Outfit{},
	}
	for _, c := range doc.WardrobeCategories {
		out.Wardrobe.Items[c.ID] = []model.WardrobeItem{}
	}

	s := doc.Settings
	out.Settings.Profile.Name = s.Name
	out.Settings.Profile.Email = s.Email
	out.Settings.Notifications.RoutineReminders = s.RoutineReminders
	out.Settings.Notifications.CalendarAlerts = s.CalendarAlerts
	out.Settings.Notifications.EmailNotifications = s.EmailNotifications
	out.Settings.Notifications.EmailAddress = s.Email
	out.Settings.Appearance.DarkMode = s.DarkMode
	out.Settings.Appearance.Theme = s.Theme
	out.Settings.Appearance.FontSize = s.FontSize
	out.Settings.WeatherCondition = s.Weather
	if s.CalendarView != "" {
		out.Settings.Calendar = &struct {
			View string `json:"view"`
		}{View: s.CalendarView}
	}
	return out, nil
}
