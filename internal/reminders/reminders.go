// Package reminders finds habit reminders that fell due since the last check
// and delivers them through the tray notifier.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
)

const (
	// FirstRunWindow is how far back the first ever check looks.
	FirstRunWindow = 15 * time.Minute
	// MaxCatchUp bounds how far back a late check looks, so a machine waking
	// from a long sleep does not replay a day of reminders.
	MaxCatchUp = 2 * time.Hour
)

// Reminder is one due habit reminder.
type Reminder struct {
	Habit models.Habit
	At    time.Time
}

// Due returns enabled habits whose reminder time falls in (since, now] on a
// day the habit is scheduled. Habits in done are skipped.
func Due(habits []models.Habit, done map[string]bool, since, now time.Time, loc *time.Location) []Reminder {
	if loc == nil {
		loc = time.Local
	}
	if !now.After(since) {
		return nil
	}

	var due []Reminder
	first := since.In(loc)
	last := now.In(loc)
	for day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc); !day.After(last); day = day.AddDate(0, 0, 1) {
		dayStr := day.Format(constants.DateFormat)
		for _, h := range habits {
			if !h.Enabled || h.ReminderTime == "" || !h.ScheduledOn(day.Weekday()) {
				continue
			}
			at, err := utils.CombineDateAndTime(dayStr, h.ReminderTime, loc)
			if err != nil {
				logger.Warn("Skipping habit with invalid reminder time", "habit", h.ID, "reminder", h.ReminderTime)
				continue
			}
			if at.After(since) && !at.After(now) && !done[h.ID] {
				due = append(due, Reminder{Habit: h, At: at})
			}
		}
	}

	sort.SliceStable(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })
	return due
}

// Store is the storage surface used by the reminder runner.
type Store interface {
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
	GetAllHabits(includeDisabled bool) ([]models.Habit, error)
	GetHabitTicksForDay(date string) ([]models.HabitTick, error)
}

// Sender delivers a notification.
type Sender interface {
	Notify(ctx context.Context, title, text string) error
}

type Runner struct {
	store  Store
	sender Sender
	now    func() time.Time
}

func NewRunner(store Store, sender Sender) *Runner {
	return &Runner{store: store, sender: sender, now: time.Now}
}

// WithClock overrides the runner clock.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Result summarizes one run.
type Result struct {
	Due    []Reminder
	Sent   int
	Failed int
	// Disabled is set when notifications are turned off in settings.
	Disabled bool
}

// Run sends every reminder due since the last run and records the check
// time. Delivery failures are logged and counted, not returned.
func (r *Runner) Run(ctx context.Context, dryRun bool) (Result, error) {
	settings, err := r.store.GetSettings()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.Local
	}
	now := r.now().In(loc)

	since := now.Add(-FirstRunWindow)
	if settings.LastReminderCheck != "" {
		if last, err := time.Parse(constants.TimestampFormat, settings.LastReminderCheck); err == nil {
			since = last
		} else {
			logger.Warn("Ignoring unparseable last reminder check", "value", settings.LastReminderCheck)
		}
	}
	if earliest := now.Add(-MaxCatchUp); since.Before(earliest) {
		since = earliest
	}

	habits, err := r.store.GetAllHabits(false)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load habits: %w", err)
	}
	ticks, err := r.store.GetHabitTicksForDay(utils.DayOf(now, loc))
	if err != nil {
		return Result{}, fmt.Errorf("failed to load today's ticks: %w", err)
	}
	done := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		done[t.HabitID] = t.Done
	}

	result := Result{Due: Due(habits, done, since, now, loc)}
	if dryRun {
		return result, nil
	}
	if !settings.NotificationsOn {
		result.Disabled = true
	} else {
		for _, rem := range result.Due {
			text := fmt.Sprintf("Time for %q (%s)", rem.Habit.Title, rem.Habit.ReminderTime)
			if err := r.sender.Notify(ctx, "steady", text); err != nil {
				logger.Warn("Failed to deliver reminder", "habit", rem.Habit.ID, "error", err)
				result.Failed++
				continue
			}
			result.Sent++
		}
	}

	settings.LastReminderCheck = now.UTC().Format(constants.TimestampFormat)
	if err := r.store.SaveSettings(settings); err != nil {
		return result, fmt.Errorf("failed to record reminder check: %w", err)
	}
	return result, nil
}
