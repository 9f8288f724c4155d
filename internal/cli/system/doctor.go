package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/keyring"
	"github.com/julianstephens/steady/internal/utils"
	"github.com/julianstephens/steady/internal/validation"
)

// skipped marks a check that does not apply to the current setup.
type skipped string

func (s skipped) Error() string { return string(s) }

type check struct {
	name string
	// needsDB checks are skipped when the database cannot be reached.
	needsDB bool
	// warnOnly failures are reported without failing the run.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Clock/timezone", run: checkClock},
	{name: "Mood entries", needsDB: true, run: checkMoodEntries},
	{name: "Habit integrity", needsDB: true, run: checkHabits},
	{name: "Journal encryption", needsDB: true, warnOnly: true, run: checkEncryption},
	{name: "Backups present", warnOnly: true, run: checkBackups},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	reachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		failed = true
		reachable = false
	} else {
		ctx.Println("✓ Database reachable: OK")
	}

	for _, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var reason skipped
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &reason):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, reason)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	s, err := sqlBackend(ctx)
	if err != nil {
		return err
	}
	var one int
	if err := s.DB().QueryRow("SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, err := sqlBackend(ctx)
	if err != nil {
		return err
	}
	runner, err := s.Migrator()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.UserID == "" {
		return errors.New("user id missing, run 'steady init'")
	}
	if err := validation.Timezone(settings.Timezone); err != nil {
		return err
	}
	return validation.StreakLookback(settings.StreakLookbackDays)
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Clock()()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkMoodEntries(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllMoodEntries()
	if err != nil {
		return fmt.Errorf("failed to read mood entries: %w", err)
	}
	bad := 0
	for _, e := range entries {
		if validation.MoodEntry(e) != nil {
			bad++
			continue
		}
		if _, err := utils.ParseDate(e.Day); err != nil {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("found %d invalid mood entries", bad)
	}
	return nil
}

func checkHabits(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	ids := make(map[string]bool, len(habits))
	for _, h := range habits {
		ids[h.ID] = true
		if err := validation.Habit(h); err != nil {
			return fmt.Errorf("habit %q: %w", h.Title, err)
		}
	}

	ticks, err := ctx.Store.GetAllHabitTicks()
	if err != nil {
		return fmt.Errorf("failed to read habit ticks: %w", err)
	}
	orphaned, badDates := 0, 0
	for _, t := range ticks {
		if !ids[t.HabitID] {
			orphaned++
		}
		if _, err := utils.ParseDate(t.Date); err != nil {
			badDates++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d habit ticks referencing missing habits", orphaned)
	}
	if badDates > 0 {
		return fmt.Errorf("found %d habit ticks with invalid dates", badDates)
	}
	return nil
}

func checkEncryption(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !settings.JournalEncryption {
		return skipped("journal encryption is off")
	}
	if settings.JournalSalt == "" {
		return errors.New("encryption is on but no salt is stored; sealed entries cannot be opened")
	}
	if _, err := keyring.GetJournalPassphrase(); err != nil {
		return fmt.Errorf("journal passphrase unavailable: %w", err)
	}
	return nil
}

func checkBackups(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if errors.Is(err, cli.ErrNotLocal) {
		return skipped("not a local database")
	}
	if err != nil {
		return err
	}
	list, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		return errors.New("no backups found, consider creating one with 'steady backup create'")
	}
	return nil
}
