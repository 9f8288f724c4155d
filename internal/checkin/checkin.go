// Package checkin records and maintains mood check-ins.
package checkin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
	"github.com/julianstephens/steady/internal/validation"
)

// Store is the storage surface used for check-ins.
type Store interface {
	GetSettings() (models.Settings, error)
	AddMoodEntry(models.MoodEntry) error
	GetMoodEntry(id string) (models.MoodEntry, error)
	UpdateMoodEntry(models.MoodEntry) error
	DeleteMoodEntry(id string) error
	DeleteMoodEntriesBefore(userID, day string) (int64, error)
	ListMoodEntries(userID, startDay, endDay string, limit int) ([]models.MoodEntry, error)
	HasMoodEntryOn(userID, day string) (bool, error)
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

// Input is a new check-in. A zero At means now.
type Input struct {
	MoodLevel int
	Tags      []string
	Notes     string
	At        time.Time
}

// Edit changes an existing entry. Nil fields are left alone.
type Edit struct {
	MoodLevel *int
	Tags      []string
	Notes     *string
	// ReplaceTags applies Tags even when empty, clearing them.
	ReplaceTags bool
}

func (s *Service) location(settings models.Settings) *time.Location {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, falling back to local", "timezone", settings.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Record validates and stores a check-in.
func (s *Service) Record(in Input) (models.MoodEntry, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := validation.MoodLevel(in.MoodLevel); err != nil {
		return models.MoodEntry{}, err
	}
	tags, err := validation.NormalizeTags(in.Tags)
	if err != nil {
		return models.MoodEntry{}, err
	}

	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	if at.After(s.now().Add(time.Minute)) {
		return models.MoodEntry{}, fmt.Errorf("%w: check-in cannot be in the future", validation.ErrInvalid)
	}

	entry := models.MoodEntry{
		ID:          uuid.New().String(),
		UserID:      settings.UserID,
		MoodLevel:   in.MoodLevel,
		EmotionTags: tags,
		Notes:       strings.TrimSpace(in.Notes),
		Timestamp:   at.UTC().Truncate(time.Second),
		Day:         utils.DayOf(at, s.location(settings)),
	}
	if err := s.store.AddMoodEntry(entry); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to save check-in: %w", err)
	}
	logger.Debug("Recorded check-in", "id", entry.ID, "day", entry.Day, "mood", entry.MoodLevel)
	return entry, nil
}

// Update applies an edit to an existing entry.
func (s *Service) Update(id string, edit Edit) (models.MoodEntry, error) {
	entry, err := s.store.GetMoodEntry(id)
	if err != nil {
		return models.MoodEntry{}, err
	}
	if edit.MoodLevel != nil {
		if err := validation.MoodLevel(*edit.MoodLevel); err != nil {
			return models.MoodEntry{}, err
		}
		entry.MoodLevel = *edit.MoodLevel
	}
	if edit.Tags != nil || edit.ReplaceTags {
		tags, err := validation.NormalizeTags(edit.Tags)
		if err != nil {
			return models.MoodEntry{}, err
		}
		entry.EmotionTags = tags
	}
	if edit.Notes != nil {
		entry.Notes = strings.TrimSpace(*edit.Notes)
	}
	if err := s.store.UpdateMoodEntry(entry); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to update check-in: %w", err)
	}
	return entry, nil
}

func (s *Service) Delete(id string) error {
	return s.store.DeleteMoodEntry(id)
}

// Prune deletes every entry older than keepDays days before today.
func (s *Service) Prune(keepDays int) (int64, error) {
	if keepDays < 1 {
		return 0, fmt.Errorf("%w: keep must be at least 1 day", validation.ErrInvalid)
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}
	today := utils.DayOf(s.now(), s.location(settings))
	cutoff, err := utils.AddDays(today, -(keepDays - 1))
	if err != nil {
		return 0, err
	}
	removed, err := s.store.DeleteMoodEntriesBefore(settings.UserID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune check-ins: %w", err)
	}
	logger.Info("Pruned check-ins", "before", cutoff, "removed", removed)
	return removed, nil
}

// Recent lists entries from the last days days, newest first.
func (s *Service) Recent(days, limit int) ([]models.MoodEntry, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if days < 1 {
		days = constants.PeriodWeek.Days()
	}
	today := utils.DayOf(s.now(), s.location(settings))
	start, end, err := utils.Window(today, days)
	if err != nil {
		return nil, err
	}
	return s.store.ListMoodEntries(settings.UserID, start, end, limit)
}

// CheckedInToday reports whether today already has a check-in.
func (s *Service) CheckedInToday() (bool, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return false, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.store.HasMoodEntryOn(settings.UserID, utils.DayOf(s.now(), s.location(settings)))
}

// ParseTags splits a comma-separated tag list.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, validation.ErrInvalid)
}
