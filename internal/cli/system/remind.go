package system

import (
	"context"
	"time"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/notifier"
	"github.com/julianstephens/steady/internal/reminders"
)

// newSender builds the notification sender. Replaced in tests.
var newSender = func() reminders.Sender { return notifier.New() }

// RemindCmd is meant to run every few minutes from cron or launchd.
type RemindCmd struct {
	DryRun  bool          `help:"List due reminders without sending or recording anything."`
	Timeout time.Duration `help:"Give up on delivery after this long." default:"30s"`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	runCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	result, err := reminders.NewRunner(ctx.Store, newSender()).WithClock(ctx.Clock()).Run(runCtx, c.DryRun)
	if err != nil {
		return err
	}

	for _, r := range result.Due {
		ctx.Printf("%s  %s\n", r.At.Format("15:04"), r.Habit.Title)
	}
	switch {
	case len(result.Due) == 0:
		ctx.Println("No reminders due.")
	case c.DryRun:
		ctx.Printf("%d reminder(s) due (dry run, nothing sent)\n", len(result.Due))
	case result.Disabled:
		ctx.Println("Notifications are off. Turn them on with 'steady settings --notifications'.")
	default:
		ctx.Printf("✓ Sent %d reminder(s)", result.Sent)
		if result.Failed > 0 {
			ctx.Printf(", %d failed (see the log)", result.Failed)
		}
		ctx.Println()
	}
	return nil
}
