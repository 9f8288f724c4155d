package journal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/steady/internal/keyring"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/sqlite"
	"github.com/julianstephens/steady/internal/validation"
	"github.com/julianstephens/steady/internal/vault"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := NewService(store).
		WithClock(func() time.Time { return fixedNow }).
		WithPassphrase(func() (string, error) { return "", keyring.ErrNotFound })
	return svc, store
}

func enable(t *testing.T, svc *Service, phrase string) {
	t.Helper()
	var stored string
	if err := svc.EnableEncryption(phrase, func(p string) error { stored = p; return nil }); err != nil {
		t.Fatalf("EnableEncryption failed: %v", err)
	}
	svc.WithPassphrase(func() (string, error) { return stored, nil })
}

func TestReframePlaintext(t *testing.T) {
	svc, store := setupService(t)

	entry, err := svc.AddReframe(NewReframe{
		Situation:        "Friend didn't reply",
		AutomaticThought: "They hate me",
		Distortions:      []models.Distortion{models.DistortionJumpingToConclusion},
		BalancedThought:  "They might be busy",
		IntensityBefore:  7,
		IntensityAfter:   3,
	})
	if err != nil {
		t.Fatalf("AddReframe failed: %v", err)
	}

	raw, err := store.GetReframe(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Situation != "Friend didn't reply" {
		t.Errorf("expected plaintext at rest, got %q", raw.Situation)
	}

	list, err := svc.ListReframes(0, time.Time{})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListReframes = %v, %v", list, err)
	}

	if _, err := svc.AddReframe(NewReframe{Situation: "x", AutomaticThought: "y", IntensityBefore: 0}); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	svc, store := setupService(t)
	enable(t, svc, "s3cret")

	entry, err := svc.AddReframe(NewReframe{
		Situation:        "Presentation",
		AutomaticThought: "I'll freeze",
		BalancedThought:  "I've practiced",
		IntensityBefore:  8,
	})
	if err != nil {
		t.Fatalf("AddReframe failed: %v", err)
	}

	raw, err := store.GetReframe(entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !vault.IsSealed(raw.Situation) || strings.Contains(raw.AutomaticThought, "freeze") {
		t.Errorf("expected sealed text at rest, got %+v", raw)
	}

	got, err := svc.GetReframe(entry.ID)
	if err != nil {
		t.Fatalf("GetReframe failed: %v", err)
	}
	if got.Situation != "Presentation" || got.BalancedThought != "I've practiced" {
		t.Errorf("decrypted = %+v", got)
	}

	win, err := svc.AddMicroWin("Went outside", models.WinSelfCare)
	if err != nil {
		t.Fatal(err)
	}
	wins, err := svc.ListMicroWins(5, time.Time{})
	if err != nil || len(wins) != 1 || wins[0].Description != "Went outside" || wins[0].ID != win.ID {
		t.Errorf("ListMicroWins = %+v, %v", wins, err)
	}
}

func TestEncryptedWithoutPassphraseIsLocked(t *testing.T) {
	svc, _ := setupService(t)
	enable(t, svc, "s3cret")
	if _, err := svc.AddWorry(NewWorry{Worry: "bills", Intensity: 5}); err != nil {
		t.Fatal(err)
	}

	svc.WithPassphrase(func() (string, error) { return "", keyring.ErrNotFound })
	if _, err := svc.ListWorries(10, time.Time{}, true); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
	if _, err := svc.AddMicroWin("x", models.WinOther); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked on write, got %v", err)
	}
}

func TestDisableEncryptionKeepsOldEntriesReadable(t *testing.T) {
	svc, _ := setupService(t)
	enable(t, svc, "s3cret")
	if _, err := svc.AddMicroWin("sealed win", models.WinMindset); err != nil {
		t.Fatal(err)
	}
	if err := svc.DisableEncryption(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddMicroWin("plain win", models.WinMindset); err != nil {
		t.Fatal(err)
	}

	wins, err := svc.ListMicroWins(10, time.Time{})
	if err != nil {
		t.Fatalf("ListMicroWins failed: %v", err)
	}
	got := map[string]bool{}
	for _, w := range wins {
		got[w.Description] = true
	}
	if !got["sealed win"] || !got["plain win"] {
		t.Errorf("expected both wins readable, got %v", got)
	}
}

func TestWorryLifecycle(t *testing.T) {
	svc, _ := setupService(t)

	worry, err := svc.AddWorry(NewWorry{Worry: "Job interview", Category: models.WorryWork, Controllable: true, ActionStep: "Prepare answers", Intensity: 6})
	if err != nil {
		t.Fatalf("AddWorry failed: %v", err)
	}
	defaulted, err := svc.AddWorry(NewWorry{Worry: "Weather", Intensity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if defaulted.Category != models.WorryOther {
		t.Errorf("expected default category other, got %s", defaulted.Category)
	}

	resolved, err := svc.ResolveWorry(worry.ID)
	if err != nil {
		t.Fatalf("ResolveWorry failed: %v", err)
	}
	if !resolved.Resolved || resolved.ResolvedAt == nil || !resolved.ResolvedAt.Equal(fixedNow) {
		t.Errorf("unexpected resolved worry: %+v", resolved)
	}

	open, err := svc.ListWorries(10, time.Time{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].ID != defaulted.ID {
		t.Errorf("expected only the open worry, got %+v", open)
	}

	if err := svc.DeleteWorry(worry.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveWorry(worry.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEnableEncryptionRejectsEmptyPassphrase(t *testing.T) {
	svc, _ := setupService(t)
	if err := svc.EnableEncryption("  ", func(string) error { return nil }); !errors.Is(err, vault.ErrEmptyPhrase) {
		t.Errorf("expected ErrEmptyPhrase, got %v", err)
	}
}
