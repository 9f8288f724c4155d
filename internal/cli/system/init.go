package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/export"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/postgres"
	"github.com/julianstephens/steady/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"Database path or PostgreSQL connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized steady storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		counts, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("data migration failed: %w", err)
		}
		ctx.Printf("✓ Copied %d records\n", counts.Total())
	}

	ctx.Println("\nNext steps:")
	ctx.Println("  steady mood add 6 --tags calm     record how you feel")
	ctx.Println("  steady habit add \"Walk\"           start tracking a habit")
	ctx.Println("  steady crisis plan                review your safety plan")
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Store.Backend() != "sqlite" {
		return fmt.Errorf("--force: %w", cli.ErrNotLocal)
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" && samePath(c.Source, dbPath) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
	}

	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete everything in %s?", dbPath), false)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("initialization cancelled")
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	ctx.Store = sqlite.NewStore(dbPath)
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// openSource opens the store data is copied from.
func openSource(ref string) (storage.Provider, error) {
	if storage.IsPostgresConnString(ref) {
		if err := postgres.ValidateConnString(ref); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("source connection string contains a password; use PGPASSWORD or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(ref), nil
	}
	path, err := storage.ExpandPath(ref)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (export.Counts, error) {
	src, err := openSource(c.Source)
	if err != nil {
		return export.Counts{}, err
	}
	if err := src.Load(); err != nil {
		return export.Counts{}, fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	from, err := src.GetSettings()
	if err != nil {
		return export.Counts{}, fmt.Errorf("failed to read source settings: %w", err)
	}
	to, err := ctx.Store.GetSettings()
	if err != nil {
		return export.Counts{}, err
	}
	// The user id stays local. The salt travels with the sealed journal text.
	to.Timezone = from.Timezone
	to.StreakLookbackDays = from.StreakLookbackDays
	to.NotificationsOn = from.NotificationsOn
	to.OnboardingComplete = from.OnboardingComplete
	to.JournalEncryption = from.JournalEncryption
	to.JournalSalt = from.JournalSalt
	if err := ctx.Store.SaveSettings(to); err != nil {
		return export.Counts{}, fmt.Errorf("failed to copy settings: %w", err)
	}

	dump, err := export.Collect(src, ctx.Clock()())
	if err != nil {
		return export.Counts{}, err
	}
	return export.Import(ctx.Store, dump)
}
