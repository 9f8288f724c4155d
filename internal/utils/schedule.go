package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/steady/internal/constants"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names into weekdays.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		wd, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return days, nil
}

// ScheduleFromWeekdays builds a Monday-first 0/1 mask.
func ScheduleFromWeekdays(days []time.Weekday) string {
	mask := []byte("0000000")
	for _, wd := range days {
		mask[(int(wd)+6)%7] = '1'
	}
	return string(mask)
}

// ParseSchedule accepts "daily", "weekdays", "weekends", a weekday list or a raw 0/1 mask.
func ParseSchedule(s string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	switch value {
	case "", "daily", "everyday":
		return constants.DefaultHabitSchedule, nil
	case "weekdays":
		return "1111100", nil
	case "weekends":
		return "0000011", nil
	}

	if len(value) == constants.HabitScheduleSize && strings.Trim(value, "01") == "" {
		if value == "0000000" {
			return "", fmt.Errorf("schedule must include at least one day")
		}
		return value, nil
	}

	days, err := ParseWeekdays(value)
	if err != nil {
		return "", err
	}
	return ScheduleFromWeekdays(days), nil
}

// DescribeSchedule renders a mask as a short human label.
func DescribeSchedule(schedule string) string {
	switch schedule {
	case "1111111":
		return "daily"
	case "1111100":
		return "weekdays"
	case "0000011":
		return "weekends"
	}
	if len(schedule) != constants.HabitScheduleSize {
		return schedule
	}
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var parts []string
	for i, c := range schedule {
		if c == '1' {
			parts = append(parts, names[i])
		}
	}
	return strings.Join(parts, ",")
}
