package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
)

// Trend classifies movement between two periods.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Arrow returns a one-rune marker for compact output.
func (t Trend) Arrow() string {
	switch t {
	case TrendImproving:
		return "↑"
	case TrendDeclining:
		return "↓"
	default:
		return "→"
	}
}

// PercentChange returns (later-earlier)/earlier*100, or 0 when earlier is 0.
func PercentChange(earlier, later float64) float64 {
	if earlier == 0 || math.IsNaN(earlier) || math.IsNaN(later) {
		return 0
	}
	return (later - earlier) / earlier * 100
}

// ClassifyTrend maps a percentage change onto a trend using a symmetric
// threshold band around zero.
func ClassifyTrend(change float64) Trend {
	switch {
	case change > constants.TrendThresholdPercent:
		return TrendImproving
	case change < -constants.TrendThresholdPercent:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Consistency is the share of days in the window with at least one entry.
func Consistency(activeDays, windowDays int) float64 {
	if windowDays <= 0 || activeDays <= 0 {
		return 0
	}
	if activeDays > windowDays {
		activeDays = windowDays
	}
	return float64(activeDays) / float64(windowDays) * 100
}

// PeriodStats is one window's aggregate.
type PeriodStats struct {
	Start string
	End   string
	models.MoodAggregate
}

// Summary compares a window with the preceding window of equal length.
type Summary struct {
	Period          constants.Period
	Current         PeriodStats
	Previous        PeriodStats
	PercentChange   float64
	Trend           Trend
	Consistency     float64
	HabitCompletion float64
	Daily           []models.DailyMood
}

// ComposeSummary builds the display summary from two aggregate rows.
func ComposeSummary(period constants.Period, current, previous PeriodStats) Summary {
	change := 0.0
	if previous.Count > 0 && current.Count > 0 {
		change = PercentChange(previous.Average, current.Average)
	}
	return Summary{
		Period:        period,
		Current:       current,
		Previous:      previous,
		PercentChange: change,
		Trend:         ClassifyTrend(change),
		Consistency:   Consistency(current.ActiveDays, period.Days()),
	}
}

// HabitCompletionRate returns done ticks on scheduled days divided by the
// number of scheduled habit-days in [start, end], as a percentage. Days before
// a habit was created are not counted against it.
func HabitCompletionRate(habits []models.Habit, ticks []models.HabitTick, start, end string, loc *time.Location) float64 {
	done := make(map[string]map[string]bool, len(habits))
	for _, t := range ticks {
		if !t.Done {
			continue
		}
		if done[t.HabitID] == nil {
			done[t.HabitID] = make(map[string]bool)
		}
		done[t.HabitID][t.Date] = true
	}

	n, err := utils.DaysBetween(start, end)
	if err != nil || n < 0 {
		return 0
	}
	first, _ := utils.ParseDate(start)

	expected, completed := 0, 0
	for _, h := range habits {
		if !h.Enabled {
			continue
		}
		created := ""
		if !h.CreatedAt.IsZero() {
			created = utils.DayOf(h.CreatedAt, loc)
		}
		for i := 0; i <= n; i++ {
			d := first.AddDate(0, 0, i)
			day := d.Format(constants.DateFormat)
			if day < created || !h.ScheduledOn(d.Weekday()) {
				continue
			}
			expected++
			if done[h.ID][day] {
				completed++
			}
		}
	}
	if expected == 0 {
		return 0
	}
	return float64(completed) / float64(expected) * 100
}
