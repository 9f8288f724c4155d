package system

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/migration"
)

// sqlStore is implemented by both database backends.
type sqlStore interface {
	DB() *sql.DB
	Migrator() (*migration.Runner, error)
}

func sqlBackend(ctx *cli.Context) (sqlStore, error) {
	s, ok := ctx.Store.(sqlStore)
	if !ok || s.DB() == nil {
		return nil, errors.New("database connection is not open")
	}
	return s, nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// A PostgreSQL store refuses to load while migrations are pending but
	// leaves the connection open, which is all the runner needs.
	if err := ctx.Store.Load(); err != nil {
		logger.Debug("Load reported an error before migrating", "error", err)
	}
	s, err := sqlBackend(ctx)
	if err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	runner, err := s.Migrator()
	if err != nil {
		return err
	}

	count, err := runner.ApplyMigrations(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count > 0 {
		ctx.Printf("\n✓ Applied %d migration(s).\n", count)
	}
	return nil
}
