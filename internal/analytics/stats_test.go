package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name           string
		earlier, later float64
		want           float64
	}{
		{"increase", 5, 6, 20},
		{"decrease", 8, 6, -25},
		{"no change", 4, 4, 0},
		{"earlier zero", 0, 7, 0},
		{"both zero", 0, 0, 0},
		{"nan earlier", math.NaN(), 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(tt.earlier, tt.later)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.earlier, tt.later, got, tt.want)
			}
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := map[float64]Trend{
		5.01:  TrendImproving,
		5:     TrendStable,
		0:     TrendStable,
		-5:    TrendStable,
		-5.01: TrendDeclining,
		40:    TrendImproving,
	}
	for change, want := range tests {
		if got := ClassifyTrend(change); got != want {
			t.Errorf("ClassifyTrend(%v) = %s, want %s", change, got, want)
		}
	}
}

func TestConsistency(t *testing.T) {
	if got := Consistency(7, 7); got != 100 {
		t.Errorf("Consistency(7,7) = %v", got)
	}
	if got := Consistency(3, 30); math.Abs(got-10) > 1e-9 {
		t.Errorf("Consistency(3,30) = %v", got)
	}
	if got := Consistency(0, 7); got != 0 {
		t.Errorf("Consistency(0,7) = %v", got)
	}
	if got := Consistency(5, 0); got != 0 {
		t.Errorf("Consistency(5,0) = %v", got)
	}
}

func TestComposeSummary(t *testing.T) {
	current := PeriodStats{MoodAggregate: models.MoodAggregate{Count: 4, Average: 6, ActiveDays: 4}}
	previous := PeriodStats{MoodAggregate: models.MoodAggregate{Count: 3, Average: 5, ActiveDays: 3}}

	got := ComposeSummary(constants.PeriodWeek, current, previous)
	if math.Abs(got.PercentChange-20) > 1e-9 {
		t.Errorf("PercentChange = %v, want 20", got.PercentChange)
	}
	if got.Trend != TrendImproving {
		t.Errorf("Trend = %s", got.Trend)
	}
	if math.Abs(got.Consistency-400.0/7) > 1e-9 {
		t.Errorf("Consistency = %v", got.Consistency)
	}

	empty := ComposeSummary(constants.PeriodMonth, current, PeriodStats{})
	if empty.PercentChange != 0 || empty.Trend != TrendStable {
		t.Errorf("no previous entries should give 0/stable, got %v/%s", empty.PercentChange, empty.Trend)
	}
}

func TestHabitCompletionRate(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		{ID: "daily", Schedule: "1111111", Enabled: true, CreatedAt: created},
		// Monday only; 2026-10-13..19 has one Monday (19th)
		{ID: "monday", Schedule: "1000000", Enabled: true, CreatedAt: created},
		{ID: "off", Schedule: "1111111", Enabled: false, CreatedAt: created},
	}
	ticks := []models.HabitTick{
		{HabitID: "daily", Date: "2026-10-13", Done: true},
		{HabitID: "daily", Date: "2026-10-14", Done: true},
		{HabitID: "daily", Date: "2026-10-15", Done: false},
		{HabitID: "monday", Date: "2026-10-19", Done: true},
		{HabitID: "monday", Date: "2026-10-18", Done: true}, // unscheduled
		{HabitID: "off", Date: "2026-10-19", Done: true},
	}

	got := HabitCompletionRate(habits, ticks, "2026-10-13", "2026-10-19", time.UTC)
	want := 3.0 / 8.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("HabitCompletionRate = %v, want %v", got, want)
	}

	newHabit := []models.Habit{{ID: "new", Schedule: "1111111", Enabled: true, CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}}
	ticks = []models.HabitTick{{HabitID: "new", Date: "2026-10-18", Done: true}, {HabitID: "new", Date: "2026-10-19", Done: true}}
	if got := HabitCompletionRate(newHabit, ticks, "2026-10-13", "2026-10-19", time.UTC); got != 100 {
		t.Errorf("days before creation should not count, got %v", got)
	}

	if got := HabitCompletionRate(nil, nil, "2026-10-13", "2026-10-19", time.UTC); got != 0 {
		t.Errorf("no habits should give 0, got %v", got)
	}
}
