// Package habits manages habit definitions and their daily ticks.
package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/utils"
	"github.com/julianstephens/steady/internal/validation"
)

// ErrDuplicateTitle is returned when another habit already uses the title.
var ErrDuplicateTitle = errors.New("a habit with that title already exists")

// Store is the storage surface used for habits.
type Store interface {
	GetSettings() (models.Settings, error)
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits(includeDisabled bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	SetHabitEnabled(id string, enabled bool) error
	DeleteHabit(id string) error
	SetHabitTick(models.HabitTick) error
	GetHabitTick(habitID, date string) (models.HabitTick, error)
	DeleteHabitTick(habitID, date string) error
	GetHabitTicks(habitID, startDate, endDate string) ([]models.HabitTick, error)
	GetHabitTicksForDay(date string) ([]models.HabitTick, error)
	IsHabitDoneOn(habitID, date string) (bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today returns today's date in the configured timezone.
func (s *Service) Today() (string, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, falling back to local", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}
	return utils.DayOf(s.now(), loc), nil
}

// NewHabit describes a habit to create.
type NewHabit struct {
	Title    string
	Schedule string // any form accepted by utils.ParseSchedule
	Reminder string // HH:MM or empty
}

// Create validates and stores a new habit.
func (s *Service) Create(in NewHabit) (models.Habit, error) {
	schedule, err := utils.ParseSchedule(in.Schedule)
	if err != nil {
		return models.Habit{}, fmt.Errorf("%w: %v", validation.ErrInvalid, err)
	}
	habit := models.Habit{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(in.Title),
		Schedule:     schedule,
		ReminderTime: strings.TrimSpace(in.Reminder),
		Enabled:      true,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := validation.Habit(habit); err != nil {
		return models.Habit{}, err
	}
	if err := s.ensureUniqueTitle(habit.Title, ""); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.AddHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}
	return habit, nil
}

func (s *Service) ensureUniqueTitle(title, selfID string) error {
	existing, err := s.store.GetHabitByTitle(title)
	if err == nil && existing.ID != selfID {
		return fmt.Errorf("%w: %q", ErrDuplicateTitle, existing.Title)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// Resolve finds a habit by id or case-insensitive title.
func (s *Service) Resolve(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if habit, err := s.store.GetHabit(ref); err == nil {
		return habit, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.store.GetHabitByTitle(ref)
}

// Changes describes an edit. Nil fields are left alone.
type Changes struct {
	Title    *string
	Schedule *string
	Reminder *string
}

// Update applies changes to a habit.
func (s *Service) Update(ref string, c Changes) (models.Habit, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if c.Title != nil {
		habit.Title = strings.TrimSpace(*c.Title)
		if err := s.ensureUniqueTitle(habit.Title, habit.ID); err != nil {
			return models.Habit{}, err
		}
	}
	if c.Schedule != nil {
		schedule, err := utils.ParseSchedule(*c.Schedule)
		if err != nil {
			return models.Habit{}, fmt.Errorf("%w: %v", validation.ErrInvalid, err)
		}
		habit.Schedule = schedule
	}
	if c.Reminder != nil {
		habit.ReminderTime = strings.TrimSpace(*c.Reminder)
	}
	if err := validation.Habit(habit); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.UpdateHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// SetEnabled enables or disables a habit.
func (s *Service) SetEnabled(ref string, enabled bool) (models.Habit, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.SetHabitEnabled(habit.ID, enabled); err != nil {
		return models.Habit{}, err
	}
	habit.Enabled = enabled
	return habit, nil
}

// Delete removes a habit and all of its ticks.
func (s *Service) Delete(ref string) (models.Habit, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteHabit(habit.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Deleted habit", "id", habit.ID, "title", habit.Title)
	return habit, nil
}

// Mark sets the tick for a day. An empty day means today.
func (s *Service) Mark(ref, day string, done bool) (models.HabitTick, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.HabitTick{}, err
	}
	day, err = s.resolveDay(day)
	if err != nil {
		return models.HabitTick{}, err
	}
	tick := models.HabitTick{HabitID: habit.ID, Date: day, Done: done}
	if err := s.store.SetHabitTick(tick); err != nil {
		return models.HabitTick{}, fmt.Errorf("failed to save tick: %w", err)
	}
	return tick, nil
}

// Toggle flips completion for a day and returns the new state.
func (s *Service) Toggle(ref, day string) (models.HabitTick, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.HabitTick{}, err
	}
	day, err = s.resolveDay(day)
	if err != nil {
		return models.HabitTick{}, err
	}
	done, err := s.store.IsHabitDoneOn(habit.ID, day)
	if err != nil {
		return models.HabitTick{}, err
	}
	tick := models.HabitTick{HabitID: habit.ID, Date: day, Done: !done}
	if err := s.store.SetHabitTick(tick); err != nil {
		return models.HabitTick{}, fmt.Errorf("failed to save tick: %w", err)
	}
	return tick, nil
}

// ClearTick removes the tick for a day so the day reads as never recorded.
// An empty day means today.
func (s *Service) ClearTick(ref, day string) (models.HabitTick, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.HabitTick{}, err
	}
	day, err = s.resolveDay(day)
	if err != nil {
		return models.HabitTick{}, err
	}
	tick, err := s.store.GetHabitTick(habit.ID, day)
	if err != nil {
		return models.HabitTick{}, err
	}
	if err := s.store.DeleteHabitTick(habit.ID, day); err != nil {
		return models.HabitTick{}, fmt.Errorf("failed to clear tick: %w", err)
	}
	return tick, nil
}

func (s *Service) resolveDay(day string) (string, error) {
	if day == "" {
		return s.Today()
	}
	if _, err := utils.ParseDate(day); err != nil {
		return "", fmt.Errorf("%w: invalid date %q, expected %s", validation.ErrInvalid, day, constants.DateFormat)
	}
	today, err := s.Today()
	if err != nil {
		return "", err
	}
	if day > today {
		return "", fmt.Errorf("%w: cannot tick a future day", validation.ErrInvalid)
	}
	return day, nil
}

// List returns habits, optionally including disabled ones.
func (s *Service) List(includeDisabled bool) ([]models.Habit, error) {
	return s.store.GetAllHabits(includeDisabled)
}

// DayStatus is a habit's state on one day.
type DayStatus struct {
	Habit     models.Habit
	Scheduled bool
	Done      bool
}

// ForDay lists enabled habits with their completion on day.
func (s *Service) ForDay(day string) ([]DayStatus, error) {
	day, err := s.resolveDay(day)
	if err != nil {
		return nil, err
	}
	d, _ := utils.ParseDate(day)

	habits, err := s.store.GetAllHabits(false)
	if err != nil {
		return nil, err
	}
	ticks, err := s.store.GetHabitTicksForDay(day)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		done[t.HabitID] = t.Done
	}

	out := make([]DayStatus, 0, len(habits))
	for _, h := range habits {
		out = append(out, DayStatus{Habit: h, Scheduled: h.ScheduledOn(d.Weekday()), Done: done[h.ID]})
	}
	return out, nil
}

// Log returns a habit's ticks over the last days days.
func (s *Service) Log(ref string, days int) (models.Habit, []models.HabitTick, error) {
	habit, err := s.Resolve(ref)
	if err != nil {
		return models.Habit{}, nil, err
	}
	today, err := s.Today()
	if err != nil {
		return models.Habit{}, nil, err
	}
	if days < 1 {
		days = constants.PeriodMonth.Days()
	}
	start, end, err := utils.Window(today, days)
	if err != nil {
		return models.Habit{}, nil, err
	}
	ticks, err := s.store.GetHabitTicks(habit.ID, start, end)
	if err != nil {
		return models.Habit{}, nil, err
	}
	return habit, ticks, nil
}
