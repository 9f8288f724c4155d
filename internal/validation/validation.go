package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func fieldErr(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MoodLevel checks the 0-10 mood scale.
func MoodLevel(level int) error {
	if level < constants.MinMoodLevel || level > constants.MaxMoodLevel {
		return fieldErr("mood", "must be between %d and %d, got %d", constants.MinMoodLevel, constants.MaxMoodLevel, level)
	}
	return nil
}

// Intensity checks a 1-10 emotional intensity rating.
func Intensity(field string, value int) error {
	if value < constants.MinIntensity || value > constants.MaxIntensity {
		return fieldErr(field, "must be between %d and %d, got %d", constants.MinIntensity, constants.MaxIntensity, value)
	}
	return nil
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first occurrence order.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > constants.MaxTagLength {
			return nil, fieldErr("tags", "%q exceeds %d characters", tag, constants.MaxTagLength)
		}
		if strings.ContainsFunc(tag, unicode.IsControl) || strings.Contains(tag, ",") {
			return nil, fieldErr("tags", "%q contains invalid characters", tag)
		}
		seen[tag] = true
		out = append(out, tag)
	}
	if len(out) > constants.MaxTagsPerEntry {
		return nil, fieldErr("tags", "at most %d tags per entry", constants.MaxTagsPerEntry)
	}
	return out, nil
}

// Title checks a required short title such as a habit name.
func Title(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fieldErr(field, "cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxTitleLength {
		return fieldErr(field, "exceeds %d characters", constants.MaxTitleLength)
	}
	return nil
}

// Required checks that a free-text field is not blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldErr(field, "cannot be empty")
	}
	return nil
}

// ReminderTime checks an optional HH:MM time.
func ReminderTime(value string) error {
	if value == "" {
		return nil
	}
	if !utils.ValidateTimeFormat(value) {
		return fieldErr("reminder", "must be HH:MM, got %q", value)
	}
	return nil
}

// Schedule checks a Monday-first 0/1 mask with at least one day set.
func Schedule(value string) error {
	if len(value) != constants.HabitScheduleSize || strings.Trim(value, "01") != "" {
		return fieldErr("schedule", "must be %d characters of 0/1, got %q", constants.HabitScheduleSize, value)
	}
	if !strings.Contains(value, "1") {
		return fieldErr("schedule", "must include at least one day")
	}
	return nil
}

// Phone checks a dialable number: digits with optional leading + and common separators.
func Phone(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fieldErr("phone", "cannot be empty")
	}
	digits := 0
	for i, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return fieldErr("phone", "invalid character %q", r)
		}
	}
	if digits < 3 || digits > 15 {
		return fieldErr("phone", "must contain 3 to 15 digits")
	}
	return nil
}

// Timezone checks an IANA name or "Local".
func Timezone(value string) error {
	if !utils.ValidateTimezone(value) {
		return fieldErr("timezone", "unknown timezone %q", value)
	}
	return nil
}

// StreakLookback checks the configurable streak window.
func StreakLookback(days int) error {
	if days < constants.MinStreakLookbackDays || days > constants.MaxStreakLookbackDays {
		return fieldErr("streak_lookback_days", "must be between %d and %d", constants.MinStreakLookbackDays, constants.MaxStreakLookbackDays)
	}
	return nil
}

// MoodEntry validates a check-in before it is stored.
func MoodEntry(e models.MoodEntry) error {
	if err := MoodLevel(e.MoodLevel); err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		return fieldErr("timestamp", "is required")
	}
	if _, err := NormalizeTags(e.EmotionTags); err != nil {
		return err
	}
	return nil
}

// Habit validates a habit definition.
func Habit(h models.Habit) error {
	if err := Title("title", h.Title); err != nil {
		return err
	}
	if err := Schedule(h.Schedule); err != nil {
		return err
	}
	return ReminderTime(h.ReminderTime)
}

// Reframe validates a thought reframe.
func Reframe(r models.ReframeEntry) error {
	if err := Required("situation", r.Situation); err != nil {
		return err
	}
	if err := Required("thought", r.AutomaticThought); err != nil {
		return err
	}
	if err := Intensity("intensity_before", r.IntensityBefore); err != nil {
		return err
	}
	if r.IntensityAfter != 0 {
		if err := Intensity("intensity_after", r.IntensityAfter); err != nil {
			return err
		}
	}
	known := make(map[models.Distortion]bool)
	for _, d := range models.Distortions() {
		known[d] = true
	}
	for _, d := range r.Distortions {
		if !known[d] {
			return fieldErr("distortions", "unknown distortion %q", d)
		}
	}
	return nil
}

// Worry validates a worry entry.
func Worry(w models.WorryEntry) error {
	if err := Required("worry", w.Worry); err != nil {
		return err
	}
	if err := Intensity("intensity", w.Intensity); err != nil {
		return err
	}
	for _, c := range models.WorryCategories() {
		if c == w.Category {
			return nil
		}
	}
	return fieldErr("category", "unknown worry category %q", w.Category)
}

// MicroWin validates a micro-win.
func MicroWin(w models.MicroWin) error {
	if err := Required("description", w.Description); err != nil {
		return err
	}
	for _, c := range models.WinCategories() {
		if c == w.Category {
			return nil
		}
	}
	return fieldErr("category", "unknown win category %q", w.Category)
}

// SupportContact validates a crisis contact.
func SupportContact(c models.SupportContact) error {
	if err := Title("name", c.Name); err != nil {
		return err
	}
	return Phone(c.Phone)
}
