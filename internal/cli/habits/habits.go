package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/constants"
	habitsvc "github.com/julianstephens/steady/internal/habits"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Today   HabitTodayCmd   `cmd:"" help:"Show habit status for a day."`
	Tick    HabitTickCmd    `cmd:"" help:"Mark a habit done."`
	Untick  HabitUntickCmd  `cmd:"" help:"Mark a habit not done."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Flip a habit's completion."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Enable  HabitEnableCmd  `cmd:"" help:"Enable a habit."`
	Disable HabitDisableCmd `cmd:"" help:"Disable a habit without deleting its history."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Streak  HabitStreakCmd  `cmd:"" help:"Show a habit's streak."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit history."`
}

type HabitAddCmd struct {
	Title    string `arg:"" help:"Habit title."`
	Schedule string `help:"daily, weekdays, weekends, a day list like mon,wed,fri, or a 7-char mask." default:"daily"`
	Reminder string `help:"Reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().Create(habitsvc.NewHabit{Title: c.Title, Schedule: c.Schedule, Reminder: c.Reminder})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added habit %q (%s)\n", habit.Title, describe(habit))
	return nil
}

func describe(h models.Habit) string {
	s := utils.DescribeSchedule(h.Schedule)
	if h.ReminderTime != "" {
		s += " at " + h.ReminderTime
	}
	return s
}

type HabitListCmd struct {
	All bool `help:"Include disabled habits." short:"a"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Habits().List(c.All)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits yet. Add one with 'steady habit add <title>'.")
		return nil
	}
	for _, h := range habits {
		status := ""
		if !h.Enabled {
			status = " [DISABLED]"
		}
		ctx.Printf("%-30s %s%s\n", h.Title, describe(h), status)
	}
	return nil
}

type HabitTodayCmd struct {
	Date string `help:"Day to show (YYYY-MM-DD, default: today)."`
}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	statuses, err := ctx.Habits().ForDay(c.Date)
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		ctx.Println("No habits yet.")
		return nil
	}
	for _, st := range statuses {
		mark := "[ ]"
		switch {
		case st.Done:
			mark = "[✓]"
		case !st.Scheduled:
			mark = " - "
		}
		ctx.Printf("%s %s\n", mark, st.Habit.Title)
	}
	return nil
}

type HabitTickCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Day to mark (YYYY-MM-DD, default: today)."`
}

func (c *HabitTickCmd) Run(ctx *cli.Context) error {
	tick, err := ctx.Habits().Mark(c.Habit, c.Date, true)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Marked %q done for %s\n", c.Habit, tick.Date)
	return nil
}

type HabitUntickCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Day to unmark (YYYY-MM-DD, default: today)."`
	Clear bool   `help:"Remove the record for the day instead of marking it not done."`
}

func (c *HabitUntickCmd) Run(ctx *cli.Context) error {
	if c.Clear {
		tick, err := ctx.Habits().ClearTick(c.Habit, c.Date)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("nothing recorded for %q on that day", c.Habit)
			}
			return err
		}
		ctx.Printf("✓ Cleared %q for %s\n", c.Habit, tick.Date)
		return nil
	}
	tick, err := ctx.Habits().Mark(c.Habit, c.Date, false)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Marked %q not done for %s\n", c.Habit, tick.Date)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Day to toggle (YYYY-MM-DD, default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	tick, err := ctx.Habits().Toggle(c.Habit, c.Date)
	if err != nil {
		return err
	}
	state := "not done"
	if tick.Done {
		state = "done"
	}
	ctx.Printf("✓ %q is now %s for %s\n", c.Habit, state, tick.Date)
	return nil
}

type HabitEditCmd struct {
	Habit    string  `arg:"" help:"Habit title or ID."`
	Title    *string `help:"New title."`
	Schedule *string `help:"New schedule."`
	Reminder *string `help:"New reminder time (HH:MM, empty to clear)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if c.Title == nil && c.Schedule == nil && c.Reminder == nil {
		return errors.New("nothing to change: pass --title, --schedule or --reminder")
	}
	habit, err := ctx.Habits().Update(c.Habit, habitsvc.Changes{Title: c.Title, Schedule: c.Schedule, Reminder: c.Reminder})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated habit %q (%s)\n", habit.Title, describe(habit))
	return nil
}

type HabitEnableCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitEnableCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().SetEnabled(c.Habit, true)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Enabled %q\n", habit.Title)
	return nil
}

type HabitDisableCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitDisableCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().SetEnabled(c.Habit, false)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Disabled %q\n", habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().Resolve(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete %q and all of its history?", habit.Title), c.Yes)
	if err != nil || !ok {
		return err
	}
	if _, err := ctx.Habits().Delete(habit.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted habit %q\n", habit.Title)
	return nil
}

type HabitStreakCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitStreakCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().Resolve(c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	streak, msg := ctx.Analytics().HabitStreak(habit.ID)
	if msg != "" {
		return errors.New(msg)
	}
	ctx.Printf("%s: %d day streak (longest %d)\n", habit.Title, streak.Current, streak.Longest)
	if streak.TodayPending {
		ctx.Println("Not done yet today. Tick it to keep the streak going.")
	}
	return nil
}

type HabitLogCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Days  int    `help:"Days of history to show." default:"28"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	habit, ticks, err := ctx.Habits().Log(c.Habit, c.Days)
	if err != nil {
		return err
	}
	today, err := ctx.Habits().Today()
	if err != nil {
		return err
	}
	start, _, err := utils.Window(today, c.Days)
	if err != nil {
		return err
	}
	ctx.Printf("%s (%s)\n", habit.Title, describe(habit))
	ctx.Println(History(habit, ticks, start, today))
	ctx.Println("■ done  · missed  (blank) not scheduled")
	return nil
}

// History renders one cell per day from start through end, a week per row.
func History(habit models.Habit, ticks []models.HabitTick, start, end string) string {
	done := make(map[string]bool, len(ticks))
	for _, t := range ticks {
		done[t.Date] = t.Done
	}
	first, err := utils.ParseDate(start)
	if err != nil {
		return ""
	}
	n, err := utils.DaysBetween(start, end)
	if err != nil || n < 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i <= n; i++ {
		d := first.AddDate(0, 0, i)
		if i > 0 && i%7 == 0 {
			b.WriteByte('\n')
		}
		if i%7 == 0 {
			b.WriteString(d.Format(constants.DateFormat) + "  ")
		}
		switch {
		case done[d.Format(constants.DateFormat)]:
			b.WriteString("■ ")
		case habit.ScheduledOn(d.Weekday()):
			b.WriteString("· ")
		default:
			b.WriteString("  ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}
