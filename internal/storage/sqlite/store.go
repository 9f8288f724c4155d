package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/migration"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/sqldb"
	"github.com/julianstephens/steady/migrations"
)

var _ storage.Provider = (*Store)(nil)

// Store is the embedded SQLite backend.
type Store struct {
	sqldb.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// dsn enables foreign keys and a busy timeout on every pooled connection.
func (s *Store) dsn() string {
	return s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.Store = sqldb.New(db, sqldb.SQLite)
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.DB() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return s.EnsureDefaultSettings()
}

func (s *Store) Load() error {
	if s.DB() != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'steady init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	// The database is local, so pending migrations are applied on load
	// rather than forcing a separate migrate step.
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if db := s.DB(); db != nil {
		return db.Close()
	}
	return nil
}

// Migrator returns a migration runner bound to the open database.
func (s *Store) Migrator() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB(), subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.Migrator()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) Backend() string {
	return "sqlite"
}
