// Package cli holds the shared context handed to every kong command and
// the small helpers the command packages share.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/steady/internal/analytics"
	"github.com/julianstephens/steady/internal/backup"
	"github.com/julianstephens/steady/internal/checkin"
	"github.com/julianstephens/steady/internal/crisis"
	"github.com/julianstephens/steady/internal/habits"
	"github.com/julianstephens/steady/internal/journal"
	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/storage"
)

// Context is passed to every command's Run method.
type Context struct {
	Store storage.Provider
	// Out receives command output. Defaults to stdout.
	Out io.Writer
	// Now overrides the clock for services. Defaults to time.Now.
	Now func() time.Time
	// Passphrase overrides where the journal passphrase comes from.
	Passphrase journal.PassphraseFunc
	// Confirm asks a yes/no question. Defaults to an interactive prompt.
	Confirm func(title string) (bool, error)
	// Secret asks for hidden input. Defaults to an interactive prompt.
	Secret func(title string) (string, error)
}

// Output returns the command output writer.
func (c *Context) Output() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Clock returns the context clock.
func (c *Context) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Output(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Output(), args...)
}

func (c *Context) Checkins() *checkin.Service {
	return checkin.NewService(c.Store).WithClock(c.Clock())
}

func (c *Context) Habits() *habits.Service {
	return habits.NewService(c.Store).WithClock(c.Clock())
}

func (c *Context) Journal() *journal.Service {
	svc := journal.NewService(c.Store).WithClock(c.Clock())
	if c.Passphrase != nil {
		svc = svc.WithPassphrase(c.Passphrase)
	}
	return svc
}

func (c *Context) Crisis() *crisis.Service {
	return crisis.NewService(c.Store).WithClock(c.Clock())
}

func (c *Context) Analytics() *analytics.Service {
	return analytics.NewService(c.Store).WithClock(c.Clock())
}

// ErrNotLocal is returned by file-based operations on a PostgreSQL store.
var ErrNotLocal = errors.New("this command only works with a local SQLite database")

// Backups returns the backup manager for a SQLite store.
func (c *Context) Backups() (*backup.Manager, error) {
	if c.Store.Backend() != "sqlite" {
		return nil, ErrNotLocal
	}
	return backup.NewManager(c.Store.GetConfigPath()).WithClock(c.Clock()), nil
}

// PerformAutomaticBackup snapshots a local database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.Backups()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// AskConfirm asks a yes/no question, skipping the prompt when yes is set.
func (c *Context) AskConfirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if c.Confirm != nil {
		return c.Confirm(title)
	}
	var ok bool
	err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// AskSecret reads hidden input such as a passphrase.
func (c *Context) AskSecret(title string) (string, error) {
	if c.Secret != nil {
		return c.Secret(title)
	}
	var value string
	err := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value).Run()
	return value, err
}

// ShortID trims a UUID to its first eight characters for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// MatchID returns the single id equal to ref or starting with it.
func MatchID(kind, ref string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q not found: %w", kind, ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d %ss, use a longer prefix", ref, len(matches), kind)
	}
}
