package reminders

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage/sqlite"
)

// 2026-10-19 is a Monday.
func at(hour, min int) time.Time {
	return time.Date(2026, 10, 19, hour, min, 0, 0, time.UTC)
}

func habit(title, schedule, reminder string) models.Habit {
	return models.Habit{ID: uuid.New().String(), Title: title, Schedule: schedule, ReminderTime: reminder, Enabled: true}
}

func TestDue(t *testing.T) {
	walk := habit("Walk", "1111111", "08:00")
	read := habit("Read", "1111111", "08:30")
	weekend := habit("Lie in", "0000011", "08:10")
	silent := habit("Silent", "1111111", "")
	off := habit("Off", "1111111", "08:05")
	off.Enabled = false
	all := []models.Habit{read, walk, weekend, silent, off}

	due := Due(all, nil, at(7, 55), at(8, 30), time.UTC)
	if len(due) != 2 {
		t.Fatalf("expected 2 due reminders, got %+v", due)
	}
	if due[0].Habit.ID != walk.ID || due[1].Habit.ID != read.ID {
		t.Errorf("expected walk then read, got %s then %s", due[0].Habit.Title, due[1].Habit.Title)
	}

	// Lower bound is exclusive
	due = Due(all, nil, at(8, 0), at(8, 29), time.UTC)
	if len(due) != 0 {
		t.Errorf("expected nothing in (08:00, 08:29], got %+v", due)
	}

	due = Due(all, map[string]bool{walk.ID: true}, at(7, 0), at(9, 0), time.UTC)
	if len(due) != 1 || due[0].Habit.ID != read.ID {
		t.Errorf("completed habits should be skipped, got %+v", due)
	}

	if Due(all, nil, at(9, 0), at(8, 0), time.UTC) != nil {
		t.Error("reversed window should be empty")
	}
}

func TestDueAcrossMidnight(t *testing.T) {
	late := habit("Wind down", "1111111", "23:50")
	early := habit("Water", "1111111", "00:05")
	since := time.Date(2026, 10, 18, 23, 45, 0, 0, time.UTC)
	now := time.Date(2026, 10, 19, 0, 10, 0, 0, time.UTC)

	due := Due([]models.Habit{early, late}, nil, since, now, time.UTC)
	if len(due) != 2 || due[0].Habit.ID != late.ID {
		t.Errorf("expected both reminders in order, got %+v", due)
	}
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Notify(_ context.Context, _, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func setupStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	settings, _ := store.GetSettings()
	settings.Timezone = "UTC"
	settings.NotificationsOn = true
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestRunnerSendsAndRecordsCheck(t *testing.T) {
	store := setupStore(t)
	h := habit("Stretch", "1111111", "08:00")
	if err := store.AddHabit(h); err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{}
	now := at(8, 5)
	runner := NewRunner(store, sender).WithClock(func() time.Time { return now })

	result, err := runner.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Sent != 1 || len(sender.sent) != 1 {
		t.Errorf("expected one reminder sent, got %+v", result)
	}

	settings, _ := store.GetSettings()
	if settings.LastReminderCheck != now.Format(constants.TimestampFormat) {
		t.Errorf("LastReminderCheck = %q", settings.LastReminderCheck)
	}

	// A second run in the same minute sends nothing new
	result, err = runner.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Sent != 0 {
		t.Errorf("expected no repeat reminders, got %+v", result)
	}
}

func TestRunnerFailuresAreNotFatal(t *testing.T) {
	store := setupStore(t)
	if err := store.AddHabit(habit("Stretch", "1111111", "08:00")); err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{err: errors.New("tray is not running")}
	runner := NewRunner(store, sender).WithClock(func() time.Time { return at(8, 1) })

	result, err := runner.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("delivery failure should not fail the run: %v", err)
	}
	if result.Failed != 1 || result.Sent != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRunnerRespectsDisabledNotificationsAndDryRun(t *testing.T) {
	store := setupStore(t)
	if err := store.AddHabit(habit("Stretch", "1111111", "08:00")); err != nil {
		t.Fatal(err)
	}
	sender := &fakeSender{}
	runner := NewRunner(store, sender).WithClock(func() time.Time { return at(8, 1) })

	result, err := runner.Run(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Due) != 1 || len(sender.sent) != 0 {
		t.Errorf("dry run should report without sending, got %+v", result)
	}
	settings, _ := store.GetSettings()
	if settings.LastReminderCheck != "" {
		t.Error("dry run should not record the check")
	}

	settings.NotificationsOn = false
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	result, err = runner.Run(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Disabled || len(sender.sent) != 0 {
		t.Errorf("expected disabled result, got %+v", result)
	}
}
