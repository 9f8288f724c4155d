package moods

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/utils"
)

type MoodCmd struct {
	Add    MoodAddCmd    `cmd:"" help:"Record a mood check-in."`
	List   MoodListCmd   `cmd:"" help:"List recent check-ins."`
	Edit   MoodEditCmd   `cmd:"" help:"Edit a check-in."`
	Delete MoodDeleteCmd `cmd:"" help:"Delete a check-in."`
	Prune  MoodPruneCmd  `cmd:"" help:"Delete check-ins older than a number of days."`
}

type MoodAddCmd struct {
	Level int    `arg:"" help:"Mood level from 0 (lowest) to 10 (best)."`
	Tags  string `help:"Comma-separated emotion tags." short:"t"`
	Notes string `help:"Free-form notes." short:"n"`
	At    string `help:"When the check-in happened (YYYY-MM-DD HH:MM, default: now)."`
}

func (c *MoodAddCmd) Run(ctx *cli.Context) error {
	in := checkin.Input{MoodLevel: c.Level, Tags: checkin.ParseTags(c.Tags), Notes: c.Notes}
	if c.At != "" {
		at, err := parseAt(ctx, c.At)
		if err != nil {
			return err
		}
		in.At = at
	}

	entry, err := ctx.Checkins().Record(in)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Checked in at %d/10 for %s (%s)\n", entry.MoodLevel, entry.Day, cli.ShortID(entry.ID))
	return nil
}

func parseAt(ctx *cli.Context, s string) (time.Time, error) {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return time.Time{}, err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		loc = time.Local
	}
	at, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q (expected YYYY-MM-DD HH:MM)", s)
	}
	return at, nil
}

type MoodListCmd struct {
	Days  int `help:"How many days back to list." default:"7"`
	Limit int `help:"Maximum entries to show (0 for all)." default:"20"`
}

func (c *MoodListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Checkins().Recent(c.Days, c.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No check-ins found. Record one with 'steady mood add <level>'.")
		return nil
	}
	for _, e := range entries {
		ctx.Printf("%s  %s  %s %2d/10", cli.ShortID(e.ID), e.Day, Bar(e.MoodLevel), e.MoodLevel)
		if len(e.EmotionTags) > 0 {
			ctx.Printf("  [%s]", strings.Join(e.EmotionTags, ", "))
		}
		ctx.Println()
		if e.Notes != "" {
			ctx.Printf("          %s\n", e.Notes)
		}
	}
	return nil
}

// Bar renders a mood level as a ten-cell gauge.
func Bar(level int) string {
	if level < 0 {
		level = 0
	}
	if level > constants.MaxMoodLevel {
		level = constants.MaxMoodLevel
	}
	return strings.Repeat("█", level) + strings.Repeat("░", constants.MaxMoodLevel-level)
}

type MoodEditCmd struct {
	ID    string  `arg:"" help:"Check-in ID or unique prefix."`
	Level *int    `help:"New mood level."`
	Tags  *string `help:"Replace emotion tags (comma-separated, empty to clear)."`
	Notes *string `help:"Replace notes."`
}

func (c *MoodEditCmd) Run(ctx *cli.Context) error {
	if c.Level == nil && c.Tags == nil && c.Notes == nil {
		return errors.New("nothing to change: pass --level, --tags or --notes")
	}
	entry, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	edit := checkin.Edit{MoodLevel: c.Level, Notes: c.Notes}
	if c.Tags != nil {
		edit.Tags = checkin.ParseTags(*c.Tags)
		edit.ReplaceTags = true
	}
	updated, err := ctx.Checkins().Update(entry.ID, edit)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated check-in %s (%d/10)\n", cli.ShortID(updated.ID), updated.MoodLevel)
	return nil
}

type MoodDeleteCmd struct {
	ID  string `arg:"" help:"Check-in ID or unique prefix."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *MoodDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := resolve(ctx, c.ID)
	if err != nil {
		return err
	}
	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete the %s check-in (%d/10)?", entry.Day, entry.MoodLevel), c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Checkins().Delete(entry.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted check-in %s\n", cli.ShortID(entry.ID))
	return nil
}

type MoodPruneCmd struct {
	Keep int  `help:"Days of history to keep, counting today." default:"365"`
	Yes  bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *MoodPruneCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete every check-in older than %d days?", c.Keep), c.Yes)
	if err != nil || !ok {
		return err
	}
	removed, err := ctx.Checkins().Prune(c.Keep)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Removed %d check-in(s)\n", removed)
	return nil
}

// resolve finds an entry by full ID or by a unique prefix of a recent one.
func resolve(ctx *cli.Context, ref string) (models.MoodEntry, error) {
	entry, err := ctx.Store.GetMoodEntry(ref)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.MoodEntry{}, err
	}

	recent, err := ctx.Checkins().Recent(constants.MaxStreakLookbackDays, 0)
	if err != nil {
		return models.MoodEntry{}, err
	}
	ids := make([]string, len(recent))
	for i, e := range recent {
		ids[i] = e.ID
	}
	id, err := cli.MatchID("check-in", ref, ids)
	if err != nil {
		return models.MoodEntry{}, err
	}
	for _, e := range recent {
		if e.ID == id {
			return e, nil
		}
	}
	return models.MoodEntry{}, fmt.Errorf("check-in %q not found", ref)
}
