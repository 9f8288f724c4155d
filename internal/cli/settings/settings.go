package settings

import (
	"fmt"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings." short:"l"`

	Timezone       *string `help:"IANA timezone used to decide calendar days, or Local."`
	StreakLookback *int    `help:"Days to look back when counting streaks (30-365)."`
	Notifications  *bool   `help:"Enable or disable habit reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		encryption := "off"
		if settings.JournalEncryption {
			encryption = "on"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:            %s\n", settings.Timezone)
		ctx.Printf("  Streak Lookback:     %d days\n", settings.StreakLookbackDays)
		ctx.Printf("  Notifications:       %v\n", settings.NotificationsOn)
		ctx.Printf("  Journal Encryption:  %s\n", encryption)
		if settings.LastReminderCheck != "" {
			ctx.Printf("  Last Reminder Check: %s\n", settings.LastReminderCheck)
		}
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if err := validation.Timezone(*c.Timezone); err != nil {
			return err
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.StreakLookback != nil {
		if err := validation.StreakLookback(*c.StreakLookback); err != nil {
			return err
		}
		settings.StreakLookbackDays = *c.StreakLookback
		updated = true
	}
	if c.Notifications != nil {
		settings.NotificationsOn = *c.Notifications
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("✓ Settings updated.")
	return nil
}
