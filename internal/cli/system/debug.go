package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show the database location."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit as JSON."`
	DumpCheckin  DebugDumpCheckinCmd  `cmd:"" help:"Dump a check-in as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(out))
	return nil
}

type DebugDBPathCmd struct{}

func (c *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"backend": ctx.Store.Backend(),
		"path":    maskPassword(ctx.Store.GetConfigPath()),
	})
}

type DebugDumpSettingsCmd struct{}

func (c *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits().Resolve(c.Habit)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("habit not found: %s", c.Habit)
	}
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return printJSON(ctx, habit)
}

type DebugDumpCheckinCmd struct {
	ID string `arg:"" help:"Full ID of the check-in."`
}

func (c *DebugDumpCheckinCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetMoodEntry(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check-in not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get check-in: %w", err)
	}
	return printJSON(ctx, entry)
}
