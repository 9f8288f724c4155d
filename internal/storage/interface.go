package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/steady/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// JournalQuery narrows journal listings. Zero values mean unbounded.
type JournalQuery struct {
	Since time.Time
	Until time.Time
	Limit int
}

// Provider is the storage handle passed to every component. There is no
// package-level instance; main constructs one and hands it down.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string
	Backend() string

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Mood entries
	AddMoodEntry(models.MoodEntry) error
	GetMoodEntry(id string) (models.MoodEntry, error)
	UpdateMoodEntry(models.MoodEntry) error
	DeleteMoodEntry(id string) error
	// DeleteMoodEntriesBefore removes every entry for the user whose day is
	// strictly before the given day and returns how many were removed.
	DeleteMoodEntriesBefore(userID, day string) (int64, error)
	ListMoodEntries(userID, startDay, endDay string, limit int) ([]models.MoodEntry, error)
	GetAllMoodEntries() ([]models.MoodEntry, error)

	// Mood aggregation
	HasMoodEntryOn(userID, day string) (bool, error)
	GetMoodAggregate(userID, startDay, endDay string) (models.MoodAggregate, error)
	GetDailyMoods(userID, startDay, endDay string) ([]models.DailyMood, error)
	GetTagCounts(userID, startDay, endDay string) ([]models.TagCount, error)

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits(includeDisabled bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	SetHabitEnabled(id string, enabled bool) error
	// DeleteHabit removes the habit and all of its ticks.
	DeleteHabit(id string) error

	// Habit ticks
	// SetHabitTick inserts or replaces the tick for (HabitID, Date).
	SetHabitTick(models.HabitTick) error
	GetHabitTick(habitID, date string) (models.HabitTick, error)
	GetHabitTicks(habitID, startDate, endDate string) ([]models.HabitTick, error)
	GetHabitTicksForDay(date string) ([]models.HabitTick, error)
	GetHabitTicksInRange(startDate, endDate string) ([]models.HabitTick, error)
	IsHabitDoneOn(habitID, date string) (bool, error)
	DeleteHabitTick(habitID, date string) error
	GetAllHabitTicks() ([]models.HabitTick, error)

	// Journal
	AddReframe(models.ReframeEntry) error
	GetReframe(id string) (models.ReframeEntry, error)
	ListReframes(JournalQuery) ([]models.ReframeEntry, error)
	DeleteReframe(id string) error

	AddWorry(models.WorryEntry) error
	GetWorry(id string) (models.WorryEntry, error)
	UpdateWorry(models.WorryEntry) error
	ListWorries(q JournalQuery, includeResolved bool) ([]models.WorryEntry, error)
	DeleteWorry(id string) error

	AddMicroWin(models.MicroWin) error
	ListMicroWins(JournalQuery) ([]models.MicroWin, error)
	DeleteMicroWin(id string) error

	// Crisis support
	AddSupportContact(models.SupportContact) error
	GetSupportContact(id string) (models.SupportContact, error)
	ListSupportContacts(userID string) ([]models.SupportContact, error)
	UpdateSupportContact(models.SupportContact) error
	DeleteSupportContact(id string) error
	GetSafetyPlan(userID string) (models.SafetyPlan, error)
	SaveSafetyPlan(models.SafetyPlan) error
}
