package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/steady/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DayOf returns the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD string at midnight UTC.
func ParseDate(day string) (time.Time, error) {
	return time.Parse(constants.DateFormat, day)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AddDays shifts a YYYY-MM-DD day by n calendar days.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDate(day)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DaysBetween returns the whole days from start to end. Negative when end precedes start.
func DaysBetween(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", start, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", end, err)
	}
	return int(e.Sub(s).Hours() / 24), nil
}

// Window returns the inclusive [start, end] days of a window of n days ending on today.
func Window(today string, n int) (string, string, error) {
	if n < 1 {
		return "", "", fmt.Errorf("window must cover at least one day, got %d", n)
	}
	start, err := AddDays(today, -(n - 1))
	if err != nil {
		return "", "", err
	}
	return start, today, nil
}

// PreviousWindow returns the window of equal length immediately before [start, end].
func PreviousWindow(start, end string) (string, string, error) {
	n, err := DaysBetween(start, end)
	if err != nil {
		return "", "", err
	}
	prevEnd, err := AddDays(start, -1)
	if err != nil {
		return "", "", err
	}
	prevStart, err := AddDays(prevEnd, -n)
	if err != nil {
		return "", "", err
	}
	return prevStart, prevEnd, nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}

	timeOfDay, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		loc,
	), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
