package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "timelink.db"
	DefaultCheckSchedule  = "@hourly"
	DefaultAutoDeleteDays = 3

	configPathEnv = "TIMELINK_CONFIG"
	appDirName    = "timelink"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
	PrevDay  string `toml:"prev_day"`
	NextDay  string `toml:"next_day"`
	PrevWeek string `toml:"prev_week"`
	NextWeek string `toml:"next_week"`
	Today    string `toml:"today"`
	Search   string `toml:"search"`
}

// Config is read from TOML; TIMELINK_* environment variables win over the
// file.
type Config struct {
	DBPath   string `toml:"db_path" env:"TIMELINK_DB_PATH"`
	Timezone string `toml:"timezone" env:"TIMELINK_TIMEZONE"`
	// CheckSchedule is a cron spec for the routine rollover check.
	CheckSchedule       string `toml:"check_schedule" env:"TIMELINK_CHECK_SCHEDULE"`
	AutoDeleteAfterDays int    `toml:"auto_delete_after_days" env:"TIMELINK_AUTO_DELETE_DAYS"`
	SeedOnFirstRun      bool   `toml:"seed_on_first_run"`
	LogLevel            string `toml:"log_level" env:"TIMELINK_LOG_LEVEL"`
	// WeekStart is "sunday" or "monday" and only affects the week strip.
	WeekStart string `toml:"week_start"`
	Keys      Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TIMELINK_CONFIG or the per-user config file.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(configPathEnv)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads path, writing the defaults there first when the file
// does not exist. A relative db_path is resolved against the config file's
// directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	cfg.Normalize()
	if !filepath.IsAbs(cfg.DBPath) && !strings.HasPrefix(cfg.DBPath, "file:") {
		cfg.DBPath = filepath.Join(filepath.Dir(path), cfg.DBPath)
	}
	return cfg, nil
}

// Normalize fills zero values left by older or partial config files.
func (c *Config) Normalize() {
	def := defaultConfig()
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = def.DBPath
	}
	if strings.TrimSpace(c.CheckSchedule) == "" {
		c.CheckSchedule = def.CheckSchedule
	}
	if c.AutoDeleteAfterDays < 0 {
		c.AutoDeleteAfterDays = def.AutoDeleteAfterDays
	}
	switch strings.ToLower(c.WeekStart) {
	case "sunday", "monday":
		c.WeekStart = strings.ToLower(c.WeekStart)
	default:
		c.WeekStart = def.WeekStart
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.Keys.fill(def.Keys)
}

// Location resolves Timezone; empty means the system zone.
func (c Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (k *Keymap) fill(def Keymap) {
	fields := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit},
		{&k.Add, def.Add},
		{&k.Up, def.Up},
		{&k.Down, def.Down},
		{&k.Toggle, def.Toggle},
		{&k.Delete, def.Delete},
		{&k.Confirm, def.Confirm},
		{&k.Cancel, def.Cancel},
		{&k.PrevDay, def.PrevDay},
		{&k.NextDay, def.NextDay},
		{&k.PrevWeek, def.PrevWeek},
		{&k.NextWeek, def.NextWeek},
		{&k.Today, def.Today},
		{&k.Search, def.Search},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:              DefaultDBName,
		CheckSchedule:       DefaultCheckSchedule,
		AutoDeleteAfterDays: DefaultAutoDeleteDays,
		SeedOnFirstRun:      true,
		LogLevel:            "info",
		WeekStart:           "sunday",
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			Confirm:  "enter",
			Cancel:   "esc",
			PrevDay:  "h",
			NextDay:  "l",
			PrevWeek: "[",
			NextWeek: "]",
			Today:    "t",
			Search:   "/",
		},
	}
}
