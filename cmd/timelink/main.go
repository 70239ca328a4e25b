package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"timelink/internal/config"
	"timelink/internal/ics"
	"timelink/internal/log"
	"timelink/internal/scheduler"
	"timelink/internal/seed"
	"timelink/internal/state"
	"timelink/internal/storage"
	"timelink/internal/ui"
)

type flagConfig struct {
	configPath string
	date       string
	once       bool
	exportICS  string
	importICS  string
}

func main() {
	flags := parseFlags()

	configPath := flags.configPath
	if configPath == "" {
		configPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	loc, err := cfg.Location()
	if err != nil {
		fmt.Printf("failed to load timezone: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	now := func() time.Time { return time.Now().In(loc) }
	repo := storage.NewRepository(db, storage.WithLocation(loc), storage.WithClock(now))
	store := state.New(repo,
		state.WithClock(now),
		state.WithAutoDeleteAfterDays(cfg.AutoDeleteAfterDays),
	)

	res := store.Load()
	if res.Empty && cfg.SeedOnFirstRun {
		data, err := seed.Defaults(loc)
		if err != nil {
			log.Error("failed to decode seed data", err)
		} else {
			store.Seed(data)
			log.Info("seeded first run", "holidays", len(data.Holidays), "routines", len(data.Routines))
		}
	}

	log.Debug("effective config",
		"config_path", configPath,
		"db_path", cfg.DBPath,
		"timezone", loc.String(),
		"check_schedule", cfg.CheckSchedule,
		"auto_delete_after_days", cfg.AutoDeleteAfterDays,
	)

	day, err := resolveDay(flags.date, now())
	if err != nil {
		fmt.Printf("invalid -date: %v\n", err)
		os.Exit(1)
	}

	if flags.importICS != "" {
		events, holidays, err := importCalendar(store, flags.importICS, loc)
		if err != nil {
			fmt.Printf("failed to import %s: %v\n", flags.importICS, err)
			os.Exit(1)
		}
		fmt.Printf("imported %d events and %d holidays from %s\n", events, holidays, flags.importICS)
	}
	if flags.exportICS != "" {
		if err := exportCalendar(store, flags.exportICS, loc); err != nil {
			fmt.Printf("failed to export %s: %v\n", flags.exportICS, err)
			os.Exit(1)
		}
	}
	if flags.importICS != "" || flags.exportICS != "" {
		return
	}

	if flags.once {
		fmt.Print(ui.Agenda(store, day, cfg.WeekStart == "monday"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// the terminal UI owns the screen from here on
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "timelink.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	sched, err := scheduler.Start(cfg.CheckSchedule, loc, func() {
		swept := store.SweepExpiredEvents(store.Now())
		reset := store.CheckAndResetRoutines()
		log.Debug("periodic check done", "swept", swept, "reset", reset)
	})
	if err != nil {
		fmt.Printf("failed to start scheduler: %v\n", err)
		os.Exit(1)
	}
	defer sched.Stop()

	if err := ui.Run(ctx, store, cfg, day); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (default: $TIMELINK_CONFIG or user config dir)")
	flag.StringVar(&cfg.date, "date", "", "Day to open, YYYY-MM-DD (default: today)")
	flag.BoolVar(&cfg.once, "once", false, "Print the day's agenda and exit")
	flag.StringVar(&cfg.exportICS, "export-ics", "", "Write events and holidays to an .ics file and exit")
	flag.StringVar(&cfg.importICS, "import-ics", "", "Add events and holidays from an .ics file and exit")

	flag.Parse()

	return cfg
}

func resolveDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation("2006-01-02", value, now.Location())
}

// importCalendar adds the file's events and holidays to store and reports
// how many of each were actually added.
func importCalendar(store *state.Store, path string, loc *time.Location) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	events, holidays, err := ics.Import(f, loc)
	if err != nil {
		return 0, 0, err
	}
	addedEvents, addedHolidays := 0, 0
	for _, e := range events {
		if _, err := store.AddEvent(e); err != nil {
			log.Error("skipping imported event", err, "date", e.Date.Format("2006-01-02"))
			continue
		}
		addedEvents++
	}
	for _, h := range holidays {
		if _, err := store.AddHoliday(h); err != nil {
			log.Error("skipping imported holiday", err, "start", h.StartDate.Format("2006-01-02"))
			continue
		}
		addedHolidays++
	}
	return addedEvents, addedHolidays, nil
}

func exportCalendar(store *state.Store, path string, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ics.Export(f, store.Events(), store.Holidays(), loc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported calendar to %s\n", path)
	return nil
}
