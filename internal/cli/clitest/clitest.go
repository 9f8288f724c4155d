// Package clitest builds command contexts backed by a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/storage/sqlite"
)

// Now is 2026-10-19 (a Monday) at noon UTC.
var Now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// New returns an initialized context whose output is captured in the buffer.
// Prompts answer yes, the clock is fixed at Now and the OS keyring is
// replaced by an in-memory mock.
func New(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "steady.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	ctx := &cli.Context{
		Store:   store,
		Out:     &out,
		Now:     func() time.Time { return Now },
		Confirm: func(string) (bool, error) { return true, nil },
		Secret:  func(string) (string, error) { return "correct horse battery staple", nil },
	}
	return ctx, &out
}
