package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/migration"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/sqldb"
	"github.com/julianstephens/steady/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

var _ storage.Provider = (*Store)(nil)

// Store is the PostgreSQL backend.
type Store struct {
	sqldb.Store
	connStr string
}

func New(connStr string) *Store {
	return &Store{connStr: withSearchPath(connStr)}
}

// withSearchPath pins search_path to the app schema unless the caller set one.
func withSearchPath(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// hasSSLMode checks if the connection string contains an sslmode parameter.
func hasSSLMode(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		return u.Query().Get("sslmode") != ""
	}
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "sslmode") {
			return true
		}
	}
	return false
}

// ValidateConnString checks that a connection string parses and carries no password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.Store = sqldb.New(db, sqldb.Postgres)
	return nil
}

func (s *Store) Init() error {
	if s.DB() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.DB().Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	runner, err := s.Migrator()
	if err != nil {
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return s.EnsureDefaultSettings()
}

func (s *Store) Load() error {
	if s.DB() != nil {
		return nil
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.Migrator()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// Migrator returns a migration runner bound to the open database.
func (s *Store) Migrator() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewPostgresRunner(s.DB(), subFS), nil
}

func (s *Store) Close() error {
	if db := s.DB(); db != nil {
		return db.Close()
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.connStr
}

func (s *Store) Backend() string {
	return "postgres"
}
