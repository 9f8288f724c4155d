// Package export dumps user data to JSON or YAML and loads it back.
// Settings are not part of a dump; they belong to the installation.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
)

// DumpVersion is bumped when the dump layout changes incompatibly.
const DumpVersion = 1

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (use json or yaml)", s)
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Dump is the full exported data set. Journal text fields are written as
// stored, so sealed values stay sealed.
type Dump struct {
	Version    int                     `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exported_at" yaml:"exported_at"`
	Moods      []models.MoodEntry      `json:"moods" yaml:"moods"`
	Habits     []models.Habit          `json:"habits" yaml:"habits"`
	Ticks      []models.HabitTick      `json:"habit_ticks" yaml:"habit_ticks"`
	Reframes   []models.ReframeEntry   `json:"reframes" yaml:"reframes"`
	Worries    []models.WorryEntry     `json:"worries" yaml:"worries"`
	Wins       []models.MicroWin       `json:"micro_wins" yaml:"micro_wins"`
	Contacts   []models.SupportContact `json:"support_contacts" yaml:"support_contacts"`
	SafetyPlan *models.SafetyPlan      `json:"safety_plan,omitempty" yaml:"safety_plan,omitempty"`
}

// Counts reports how many records of each kind were imported.
type Counts struct {
	Moods, Habits, Ticks, Reframes, Worries, Wins, Contacts int
	SafetyPlan                                              bool
}

func (c Counts) Total() int {
	n := c.Moods + c.Habits + c.Ticks + c.Reframes + c.Worries + c.Wins + c.Contacts
	if c.SafetyPlan {
		n++
	}
	return n
}

// Source is the read side of the store used by Collect.
type Source interface {
	GetSettings() (models.Settings, error)
	GetAllMoodEntries() ([]models.MoodEntry, error)
	GetAllHabits(includeDisabled bool) ([]models.Habit, error)
	GetAllHabitTicks() ([]models.HabitTick, error)
	ListReframes(storage.JournalQuery) ([]models.ReframeEntry, error)
	ListWorries(q storage.JournalQuery, includeResolved bool) ([]models.WorryEntry, error)
	ListMicroWins(storage.JournalQuery) ([]models.MicroWin, error)
	ListSupportContacts(userID string) ([]models.SupportContact, error)
	GetSafetyPlan(userID string) (models.SafetyPlan, error)
}

// Collect reads every record into a Dump.
func Collect(src Source, now time.Time) (Dump, error) {
	settings, err := src.GetSettings()
	if err != nil {
		return Dump{}, fmt.Errorf("failed to load settings: %w", err)
	}

	d := Dump{Version: DumpVersion, ExportedAt: now.UTC().Truncate(time.Second)}
	if d.Moods, err = src.GetAllMoodEntries(); err != nil {
		return Dump{}, fmt.Errorf("failed to read mood entries: %w", err)
	}
	if d.Habits, err = src.GetAllHabits(true); err != nil {
		return Dump{}, fmt.Errorf("failed to read habits: %w", err)
	}
	if d.Ticks, err = src.GetAllHabitTicks(); err != nil {
		return Dump{}, fmt.Errorf("failed to read habit ticks: %w", err)
	}
	if d.Reframes, err = src.ListReframes(storage.JournalQuery{}); err != nil {
		return Dump{}, fmt.Errorf("failed to read reframes: %w", err)
	}
	if d.Worries, err = src.ListWorries(storage.JournalQuery{}, true); err != nil {
		return Dump{}, fmt.Errorf("failed to read worries: %w", err)
	}
	if d.Wins, err = src.ListMicroWins(storage.JournalQuery{}); err != nil {
		return Dump{}, fmt.Errorf("failed to read micro-wins: %w", err)
	}
	if d.Contacts, err = src.ListSupportContacts(settings.UserID); err != nil {
		return Dump{}, fmt.Errorf("failed to read support contacts: %w", err)
	}

	plan, err := src.GetSafetyPlan(settings.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return Dump{}, fmt.Errorf("failed to read safety plan: %w", err)
	case !plan.IsEmpty():
		d.SafetyPlan = &plan
	}
	return d, nil
}

// Write encodes d to w.
func Write(w io.Writer, d Dump, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Read decodes a dump and rejects versions newer than this build understands.
func Read(r io.Reader, format Format) (Dump, error) {
	var d Dump
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return Dump{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	case JSON:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&d); err != nil {
			return Dump{}, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		return Dump{}, fmt.Errorf("unsupported format %q", format)
	}
	if d.Version == 0 || d.Version > DumpVersion {
		return Dump{}, fmt.Errorf("unsupported dump version %d", d.Version)
	}
	return d, nil
}

// Sink is the write side of the store used by Import.
type Sink interface {
	Source
	AddMoodEntry(models.MoodEntry) error
	GetMoodEntry(id string) (models.MoodEntry, error)
	UpdateMoodEntry(models.MoodEntry) error
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	UpdateHabit(models.Habit) error
	SetHabitTick(models.HabitTick) error
	AddReframe(models.ReframeEntry) error
	GetReframe(id string) (models.ReframeEntry, error)
	DeleteReframe(id string) error
	AddWorry(models.WorryEntry) error
	GetWorry(id string) (models.WorryEntry, error)
	UpdateWorry(models.WorryEntry) error
	AddMicroWin(models.MicroWin) error
	DeleteMicroWin(id string) error
	AddSupportContact(models.SupportContact) error
	GetSupportContact(id string) (models.SupportContact, error)
	UpdateSupportContact(models.SupportContact) error
	SaveSafetyPlan(models.SafetyPlan) error
}

// upsert updates when the record exists and adds it otherwise.
func upsert(get func() error, update, add func() error) error {
	err := get()
	switch {
	case err == nil:
		return update()
	case errors.Is(err, storage.ErrNotFound):
		return add()
	default:
		return err
	}
}

// Import upserts every record of d by id. Records owned by a user are
// reassigned to the current installation's user.
func Import(dst Sink, d Dump) (Counts, error) {
	var c Counts
	settings, err := dst.GetSettings()
	if err != nil {
		return c, fmt.Errorf("failed to load settings: %w", err)
	}
	userID := settings.UserID

	for _, m := range d.Moods {
		m.UserID = userID
		err := upsert(
			func() error { _, err := dst.GetMoodEntry(m.ID); return err },
			func() error { return dst.UpdateMoodEntry(m) },
			func() error { return dst.AddMoodEntry(m) },
		)
		if err != nil {
			return c, fmt.Errorf("failed to import mood entry %s: %w", m.ID, err)
		}
		c.Moods++
	}

	// Habits before ticks so the foreign key holds.
	for _, h := range d.Habits {
		err := upsert(
			func() error { _, err := dst.GetHabit(h.ID); return err },
			func() error { return dst.UpdateHabit(h) },
			func() error { return dst.AddHabit(h) },
		)
		if err != nil {
			return c, fmt.Errorf("failed to import habit %q: %w", h.Title, err)
		}
		c.Habits++
	}
	for _, t := range d.Ticks {
		if err := dst.SetHabitTick(t); err != nil {
			return c, fmt.Errorf("failed to import tick %s/%s: %w", t.HabitID, t.Date, err)
		}
		c.Ticks++
	}

	// Reframes are immutable once written; replace wholesale.
	for _, r := range d.Reframes {
		err := upsert(
			func() error { _, err := dst.GetReframe(r.ID); return err },
			func() error {
				if err := dst.DeleteReframe(r.ID); err != nil {
					return err
				}
				return dst.AddReframe(r)
			},
			func() error { return dst.AddReframe(r) },
		)
		if err != nil {
			return c, fmt.Errorf("failed to import reframe %s: %w", r.ID, err)
		}
		c.Reframes++
	}

	for _, w := range d.Worries {
		err := upsert(
			func() error { _, err := dst.GetWorry(w.ID); return err },
			func() error { return dst.UpdateWorry(w) },
			func() error { return dst.AddWorry(w) },
		)
		if err != nil {
			return c, fmt.Errorf("failed to import worry %s: %w", w.ID, err)
		}
		c.Worries++
	}

	existingWins, err := dst.ListMicroWins(storage.JournalQuery{})
	if err != nil {
		return c, fmt.Errorf("failed to read micro-wins: %w", err)
	}
	seen := make(map[string]bool, len(existingWins))
	for _, w := range existingWins {
		seen[w.ID] = true
	}
	for _, w := range d.Wins {
		if seen[w.ID] {
			if err := dst.DeleteMicroWin(w.ID); err != nil {
				return c, fmt.Errorf("failed to replace micro-win %s: %w", w.ID, err)
			}
		}
		if err := dst.AddMicroWin(w); err != nil {
			return c, fmt.Errorf("failed to import micro-win %s: %w", w.ID, err)
		}
		c.Wins++
	}

	for _, sc := range d.Contacts {
		sc.UserID = userID
		err := upsert(
			func() error { _, err := dst.GetSupportContact(sc.ID); return err },
			func() error { return dst.UpdateSupportContact(sc) },
			func() error { return dst.AddSupportContact(sc) },
		)
		if err != nil {
			return c, fmt.Errorf("failed to import contact %q: %w", sc.Name, err)
		}
		c.Contacts++
	}

	if d.SafetyPlan != nil && !d.SafetyPlan.IsEmpty() {
		plan := *d.SafetyPlan
		plan.UserID = userID
		if err := dst.SaveSafetyPlan(plan); err != nil {
			return c, fmt.Errorf("failed to import safety plan: %w", err)
		}
		c.SafetyPlan = true
	}

	logger.Info("Imported dump", "records", c.Total(), "exported_at", d.ExportedAt.Format(constants.TimestampFormat))
	return c, nil
}
