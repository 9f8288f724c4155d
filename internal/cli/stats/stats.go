package stats

import (
	"fmt"

	"github.com/julianstephens/steady/internal/analytics"
	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/tui/components/chart"
	"github.com/julianstephens/steady/internal/utils"
)

type StatsCmd struct {
	Summary  SummaryCmd  `cmd:"" help:"Mood summary compared with the previous period." default:"1"`
	Emotions EmotionsCmd `cmd:"" help:"Most frequent emotions."`
	Streak   StreakCmd   `cmd:"" help:"Check-in streak."`
	Chart    ChartCmd    `cmd:"" help:"Mood and habit charts."`
	Journal  JournalCmd  `cmd:"" help:"Thinking patterns, worries and wins."`
}

// warn prints the message an analytics call returns alongside its fallback.
func warn(ctx *cli.Context, msg string) {
	if msg != "" {
		ctx.Printf("⚠ %s\n", msg)
	}
}

type SummaryCmd struct {
	Period string `arg:"" optional:"" enum:"week,month,3months,6months,year" default:"week" help:"Window: ${enum}."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	s, msg := ctx.Analytics().Summary(constants.Period(c.Period))
	warn(ctx, msg)
	if msg != "" {
		return nil
	}

	ctx.Printf("Mood over the last %s (%s to %s)\n\n", c.Period, s.Current.Start, s.Current.End)
	if s.Current.Count == 0 {
		ctx.Println("No check-ins in this period yet.")
	} else {
		ctx.Printf("  Average     %.1f/10 (low %d, high %d)\n", s.Current.Average, s.Current.Min, s.Current.Max)
		ctx.Printf("  Check-ins   %d on %d of %d days (%.0f%%)\n",
			s.Current.Count, s.Current.ActiveDays, s.Period.Days(), s.Consistency)
	}
	if s.Previous.Count > 0 && s.Current.Count > 0 {
		ctx.Printf("  Trend       %s %s (%+.1f%% vs %.1f)\n",
			s.Trend.Arrow(), s.Trend, s.PercentChange, s.Previous.Average)
	} else {
		ctx.Printf("  Trend       %s not enough data to compare\n", s.Trend.Arrow())
	}
	ctx.Printf("  Habits      %.0f%% of scheduled days done\n", s.HabitCompletion)
	return nil
}

type EmotionsCmd struct {
	Period string `arg:"" optional:"" enum:"week,month,3months,6months,year" default:"week" help:"Window: ${enum}."`
	Limit  int    `help:"Number of emotions to show." default:"5" short:"n"`
}

func (c *EmotionsCmd) Run(ctx *cli.Context) error {
	ranked, msg := ctx.Analytics().TopEmotions(constants.Period(c.Period), c.Limit)
	warn(ctx, msg)
	if len(ranked) == 0 {
		if msg == "" {
			ctx.Println("No emotions tagged in this period. Add tags with 'steady mood add <level> --tags ...'.")
		}
		return nil
	}
	printRanked(ctx, ranked)
	return nil
}

func printRanked(ctx *cli.Context, ranked []analytics.Ranked) {
	for i, r := range ranked {
		mood := ""
		if r.AvgMood > 0 {
			mood = fmt.Sprintf("  avg mood %.1f", r.AvgMood)
		}
		ctx.Printf("%2d. %-16s %3d  %5.1f%%  %s%s\n", i+1, r.Label, r.Count.Count, r.Percent, r.Trend.Arrow(), mood)
	}
}

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	streak, msg := ctx.Analytics().MoodStreak()
	warn(ctx, msg)
	ctx.Printf("Check-in streak: %d day(s) (longest %d)\n", streak.Current, streak.Longest)
	if streak.TodayPending {
		ctx.Println("You haven't checked in today. A quick 'steady mood add' keeps it going.")
	}
	return nil
}

type ChartCmd struct {
	Period string `arg:"" optional:"" enum:"week,month,3months,6months,year" default:"month" help:"Window: ${enum}."`
	Width  int    `default:"90" help:"Maximum chart width in columns."`
}

func (c *ChartCmd) Run(ctx *cli.Context) error {
	charts, msg := ctx.Analytics().Charts(constants.Period(c.Period))
	warn(ctx, msg)
	if msg != "" {
		return nil
	}
	total, err := utils.DaysBetween(charts.Start, charts.End)
	if err != nil {
		return err
	}
	total++
	slots := total
	if c.Width > 0 {
		slots = min(total, c.Width)
	}
	mood := chart.Compress(charts.Mood, total, slots)
	habits := chart.Compress(charts.Habits, total, slots)

	ctx.Printf("Mood (daily average, %d-%d)\n", constants.MinMoodLevel, constants.MaxMoodLevel)
	if len(charts.Mood) == 0 {
		ctx.Println("  no check-ins")
	} else {
		ctx.Printf("  %s\n", chart.Sparkline(mood, slots, constants.MinMoodLevel, constants.MaxMoodLevel))
		ctx.Printf("  %s\n", chart.Axis(charts.Start, charts.End, slots))
	}

	ctx.Println("\nHabits done per day")
	hi := 0.0
	for _, p := range habits {
		hi = max(hi, p.Y)
	}
	if hi == 0 {
		ctx.Println("  none yet")
	} else {
		ctx.Printf("  %s\n", chart.Sparkline(habits, slots, 0, hi))
		ctx.Printf("  %s\n", chart.Axis(charts.Start, charts.End, slots))
	}

	if len(charts.Emotions) > 0 {
		ctx.Println("\nEmotions")
		ctx.Println(chart.Bars(charts.Emotions, 30))
	}
	return nil
}

type JournalCmd struct {
	Period string `arg:"" optional:"" enum:"week,month,3months,6months,year" default:"month" help:"Window: ${enum}."`
}

func (c *JournalCmd) Run(ctx *cli.Context) error {
	in, msg := ctx.Analytics().Journal(constants.Period(c.Period))
	warn(ctx, msg)
	if msg != "" {
		return nil
	}
	ctx.Printf("Reframes: %d", in.Reframes)
	if in.AvgRelief != 0 {
		ctx.Printf(" (intensity eased by %.1f on average)", in.AvgRelief)
	}
	ctx.Printf("\nOpen worries: %d\n", in.OpenWorries)

	sections := []struct {
		title  string
		ranked []analytics.Ranked
	}{
		{"Thinking patterns", in.Distortions},
		{"Worry categories", in.WorryCategories},
		{"Wins", in.WinCategories},
	}
	for _, s := range sections {
		if len(s.ranked) == 0 {
			continue
		}
		ctx.Printf("\n%s\n", s.title)
		printRanked(ctx, s.ranked)
	}
	return nil
}
