package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/cli/clitest"
	"github.com/julianstephens/steady/internal/journal"
	"github.com/julianstephens/steady/internal/models"
)

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	entries := []checkin.Input{
		{MoodLevel: 8, Tags: []string{"calm"}, At: clitest.Now.Add(-time.Hour)},
		{MoodLevel: 4, Tags: []string{"anxious", "calm"}, At: clitest.Now.AddDate(0, 0, -1)},
		{MoodLevel: 5, Tags: []string{"tired"}, At: clitest.Now.AddDate(0, 0, -10)},
	}
	for _, in := range entries {
		if _, err := ctx.Checkins().Record(in); err != nil {
			t.Fatalf("failed to seed check-in: %v", err)
		}
	}
}

func TestSummary(t *testing.T) {
	ctx, out := clitest.New(t)
	seed(t, ctx)

	if err := (&SummaryCmd{Period: "week"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"2026-10-13 to 2026-10-19",
		"Average     6.0/10 (low 4, high 8)",
		"2 on 2 of 7 days",
		"↑ improving (+20.0% vs 5.0)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryEmpty(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&SummaryCmd{Period: "month"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No check-ins in this period yet") ||
		!strings.Contains(out.String(), "not enough data") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestEmotions(t *testing.T) {
	ctx, out := clitest.New(t)
	seed(t, ctx)

	if err := (&EmotionsCmd{Period: "week", Limit: 5}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 emotions, got:\n%s", out.String())
	}
	if !strings.Contains(lines[0], "calm") || !strings.Contains(lines[1], "anxious") {
		t.Errorf("unexpected ranking:\n%s", out.String())
	}
}

func TestStreak(t *testing.T) {
	ctx, out := clitest.New(t)
	seed(t, ctx)
	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Check-in streak: 2 day(s)") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestStreakPendingToday(t *testing.T) {
	ctx, out := clitest.New(t)
	if _, err := ctx.Checkins().Record(checkin.Input{MoodLevel: 6, At: clitest.Now.AddDate(0, 0, -1)}); err != nil {
		t.Fatal(err)
	}
	if err := (&StreakCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "haven't checked in today") {
		t.Errorf("expected a nudge, got %q", out.String())
	}
}

func TestChart(t *testing.T) {
	ctx, out := clitest.New(t)
	seed(t, ctx)
	if err := (&ChartCmd{Period: "week"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Mood (daily average, 0-10)", "2026-10-13", "none yet", "Emotions", "calm"} {
		if !strings.Contains(got, want) {
			t.Errorf("chart output missing %q:\n%s", want, got)
		}
	}
}

func TestJournalInsights(t *testing.T) {
	ctx, out := clitest.New(t)
	svc := ctx.Journal()
	if _, err := svc.AddReframe(journal.NewReframe{
		Situation:        "Missed a deadline",
		AutomaticThought: "I always mess up",
		Distortions:      []models.Distortion{models.DistortionOvergeneralization},
		BalancedThought:  "I was late once",
		IntensityBefore:  8,
		IntensityAfter:   5,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddWorry(journal.NewWorry{Worry: "Rent", Category: models.WorryFinances, Intensity: 6}); err != nil {
		t.Fatal(err)
	}

	if err := (&JournalCmd{Period: "week"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Reframes: 1 (intensity eased by 3.0", "Open worries: 1", "overgeneralization", "finances"} {
		if !strings.Contains(got, want) {
			t.Errorf("journal insights missing %q:\n%s", want, got)
		}
	}
}
