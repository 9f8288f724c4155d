// Package sqldb implements storage.Provider data access on top of
// database/sql. Queries are written with "?" placeholders and rebound for
// the active dialect.
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
)

// Dialect selects placeholder style.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) Store {
	return Store{db: db, dialect: dialect}
}

// DB returns the underlying connection, or nil before Init/Load.
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind rewrites "?" placeholders into "$n" for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *Store) exec(query string, args ...interface{}) (sql.Result, error) {
	return s.db.Exec(s.rebind(query), args...)
}

func (s *Store) query(query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.Query(s.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...interface{}) *sql.Row {
	return s.db.QueryRow(s.rebind(query), args...)
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) txExec(tx *sql.Tx, query string, args ...interface{}) (sql.Result, error) {
	return tx.Exec(s.rebind(query), args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, value)
	if err != nil {
		// Fall back for rows written by other tools with an offset
		return time.Parse(time.RFC3339, value)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// notFound maps sql.ErrNoRows onto storage.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return err
}

// requireAffected turns a zero-row mutation into storage.ErrNotFound.
func requireAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingUserID:
			settings.UserID = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingOnboardingComplete:
			settings.OnboardingComplete = value == "true"
		case constants.SettingStreakLookbackDays:
			n, err := strconv.Atoi(value)
			if err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.StreakLookbackDays = n
		case constants.SettingNotifications:
			settings.NotificationsOn = value == "true"
		case constants.SettingJournalEncryption:
			settings.JournalEncryption = value == "true"
		case constants.SettingJournalSalt:
			settings.JournalSalt = value
		case constants.SettingLastReminderCheck:
			settings.LastReminderCheck = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}

	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	values := map[string]string{
		constants.SettingUserID:             settings.UserID,
		constants.SettingTimezone:           settings.Timezone,
		constants.SettingOnboardingComplete: strconv.FormatBool(settings.OnboardingComplete),
		constants.SettingStreakLookbackDays: strconv.Itoa(settings.StreakLookbackDays),
		constants.SettingNotifications:      strconv.FormatBool(settings.NotificationsOn),
		constants.SettingJournalEncryption:  strconv.FormatBool(settings.JournalEncryption),
		constants.SettingJournalSalt:        settings.JournalSalt,
		constants.SettingLastReminderCheck:  settings.LastReminderCheck,
	}

	return s.withTx(func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := s.txExec(tx, `
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
				return fmt.Errorf("saving setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// EnsureDefaultSettings fills in any missing settings, generating the
// local user id on first run.
func (s *Store) EnsureDefaultSettings() error {
	settings, err := s.GetSettings()
	changed := err != nil
	if err != nil {
		settings = models.Settings{
			StreakLookbackDays: constants.DefaultStreakLookbackDays,
			NotificationsOn:    constants.DefaultNotifications,
			JournalEncryption:  constants.DefaultJournalEncryption,
		}
	}

	if settings.UserID == "" {
		settings.UserID = uuid.New().String()
		changed = true
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
		changed = true
	}
	if settings.StreakLookbackDays == 0 {
		settings.StreakLookbackDays = constants.DefaultStreakLookbackDays
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}
