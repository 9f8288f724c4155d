package analytics

import (
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/utils"
)

// Point is one chart sample.
type Point struct {
	X     float64
	Y     float64
	Label string
}

// MoodSeries plots the daily average with x as the day offset from start.
// Days without entries are omitted.
func MoodSeries(daily []models.DailyMood, start string) []Point {
	points := make([]Point, 0, len(daily))
	for _, d := range daily {
		offset, err := utils.DaysBetween(start, d.Day)
		if err != nil || offset < 0 {
			continue
		}
		points = append(points, Point{X: float64(offset), Y: d.Average, Label: d.Day})
	}
	return points
}

// HabitSeries plots completed ticks per day for every day in [start, end].
func HabitSeries(ticks []models.HabitTick, start, end string) []Point {
	n, err := utils.DaysBetween(start, end)
	if err != nil || n < 0 {
		return nil
	}
	perDay := make(map[string]int)
	for _, t := range ticks {
		if t.Done {
			perDay[t.Date]++
		}
	}

	first, _ := utils.ParseDate(start)
	points := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		day := first.AddDate(0, 0, i).Format(constants.DateFormat)
		points = append(points, Point{X: float64(i), Y: float64(perDay[day]), Label: day})
	}
	return points
}

// FrequencySeries plots ranked counts as bars in rank order.
func FrequencySeries(ranked []Ranked) []Point {
	points := make([]Point, len(ranked))
	for i, r := range ranked {
		points[i] = Point{X: float64(i), Y: float64(r.Count.Count), Label: r.Label}
	}
	return points
}
