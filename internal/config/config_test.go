package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timelink", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "timelink", DefaultDBName) {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.CheckSchedule != DefaultCheckSchedule || cfg.AutoDeleteAfterDays != 3 || !cfg.SeedOnFirstRun {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Keys.Toggle != " " || cfg.Keys.NextDay != "l" {
		t.Fatalf("keys = %+v", cfg.Keys)
	}

	again, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.DBPath != cfg.DBPath || again.Keys != cfg.Keys {
		t.Fatalf("reload differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadOrCreatePartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "db_path = \"/var/lib/timelink.db\"\nweek_start = \"Monday\"\nauto_delete_after_days = -2\n\n[keys]\nquit = \"x\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DBPath != "/var/lib/timelink.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.WeekStart != "monday" || cfg.AutoDeleteAfterDays != 3 {
		t.Fatalf("normalized = %+v", cfg)
	}
	if cfg.Keys.Quit != "x" || cfg.Keys.Add != "a" {
		t.Fatalf("keys = %+v", cfg.Keys)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("TIMELINK_DB_PATH", "/tmp/env.db")
	t.Setenv("TIMELINK_TIMEZONE", "Asia/Seoul")
	t.Setenv("TIMELINK_CHECK_SCHEDULE", "*/5 * * * *")
	t.Setenv("TIMELINK_AUTO_DELETE_DAYS", "7")
	t.Setenv("TIMELINK_LOG_LEVEL", "debug")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" || cfg.Timezone != "Asia/Seoul" || cfg.CheckSchedule != "*/5 * * * *" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AutoDeleteAfterDays != 7 || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db_path = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResolveConfigPathFromEnv(t *testing.T) {
	t.Setenv("TIMELINK_CONFIG", "/etc/timelink.toml")
	if got := ResolveConfigPath(); got != "/etc/timelink.toml" {
		t.Fatalf("ResolveConfigPath = %q", got)
	}
}

func TestLocation(t *testing.T) {
	loc, err := Config{Timezone: "UTC"}.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("Location = %v, %v", loc, err)
	}
	if _, err := (Config{Timezone: "Mars/Olympus"}).Location(); err == nil {
		t.Fatal("expected error for unknown zone")
	}
	if loc, err := (Config{}).Location(); err != nil || loc == nil {
		t.Fatalf("empty timezone = %v, %v", loc, err)
	}
}
