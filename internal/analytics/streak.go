package analytics

import (
	"fmt"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/utils"
)

// DayChecker reports whether a qualifying record exists on day (YYYY-MM-DD).
type DayChecker func(day string) (bool, error)

// DaySkipper reports days that neither extend nor break a streak, such as
// days a habit is not scheduled.
type DaySkipper func(day string) bool

// StreakResult is the outcome of a backward walk from today.
type StreakResult struct {
	Current int
	Longest int
	// TodayPending is set when today has no record yet and counting began yesterday.
	TodayPending bool
}

// ClampLookback bounds a configured lookback to the supported range.
func ClampLookback(days int) int {
	switch {
	case days <= 0:
		return constants.DefaultStreakLookbackDays
	case days < constants.MinStreakLookbackDays:
		return constants.MinStreakLookbackDays
	case days > constants.MaxStreakLookbackDays:
		return constants.MaxStreakLookbackDays
	}
	return days
}

// Streak walks backward one day at a time from today.
//
// If today has no record, counting starts from yesterday, since today is
// still in progress. The walk visits at most lookback days.
func Streak(today string, lookback int, check DayChecker, skip DaySkipper) (StreakResult, error) {
	if _, err := utils.ParseDate(today); err != nil {
		return StreakResult{}, fmt.Errorf("invalid date %q: %w", today, err)
	}
	lookback = ClampLookback(lookback)

	var result StreakResult
	run := 0
	counting := true
	for i := 0; i < lookback; i++ {
		day, err := utils.AddDays(today, -i)
		if err != nil {
			return StreakResult{}, err
		}
		if skip != nil && skip(day) {
			continue
		}

		ok, err := check(day)
		if err != nil {
			return StreakResult{}, fmt.Errorf("failed to check %s: %w", day, err)
		}

		if ok {
			run++
			if counting {
				result.Current = run
			}
		} else {
			if i == 0 {
				result.TodayPending = true
				continue
			}
			counting = false
			run = 0
		}
		if run > result.Longest {
			result.Longest = run
		}
	}
	return result, nil
}

// SetChecker builds a DayChecker from a set of days known to qualify.
func SetChecker(days map[string]bool) DayChecker {
	return func(day string) (bool, error) {
		return days[day], nil
	}
}
