package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (string, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "steady.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	addHabit(t, store, "Walk")
	return dbPath, store
}

func addHabit(t *testing.T, store *sqlite.Store, title string) {
	t.Helper()
	h := models.Habit{ID: uuid.New().String(), Title: title, Schedule: constants.DefaultHabitSchedule, Enabled: true, CreatedAt: time.Now().UTC()}
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func ticker(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(info.Path) != mgr.Dir() {
		t.Errorf("backup written to %s, want %s", info.Path, mgr.Dir())
	}
	if info.Size == 0 {
		t.Error("backup should not be empty")
	}
	if err := Verify(info.Path); err != nil {
		t.Errorf("backup failed verification: %v", err)
	}

	backup := sqlite.NewStore(info.Path)
	if err := backup.Load(); err != nil {
		t.Fatalf("failed to open backup: %v", err)
	}
	defer backup.Close()
	habits, err := backup.GetAllHabits(true)
	if err != nil || len(habits) != 1 {
		t.Errorf("expected the habit in the backup, got %v (err %v)", habits, err)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected an error for a missing database")
	}
}

func TestBackupNamesAreUnique(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mgr := NewManager(dbPath).WithClock(func() time.Time { return fixed })

	first, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first.Path == second.Path {
		t.Fatalf("backups collided on %s", first.Path)
	}
	if second.Name != "steady-20261019-090000-1.db" {
		t.Errorf("unexpected counter name %s", second.Name)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 || backups[0].Name != second.Name {
		t.Errorf("expected counter backup listed first, got %+v", backups)
	}
}

func TestListOrdersSameSecondByCounter(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.Dir(), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"steady-20261019-090000.db",
		"steady-20261019-090000-9.db",
		"steady-20261019-090000-10.db",
		"steady-20261019-090000-1.db",
		"steady-20261018-230000-12.db",
	} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, b := range backups {
		got = append(got, b.Name)
	}
	want := []string{
		"steady-20261019-090000-10.db",
		"steady-20261019-090000-9.db",
		"steady-20261019-090000-1.db",
		"steady-20261019-090000.db",
		"steady-20261018-230000-12.db",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}

func TestRotationWithinOneSecond(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mgr := NewManager(dbPath).WithClock(func() time.Time { return fixed })

	var newest Info
	for i := 0; i < constants.MaxBackups+2; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("backup %d failed: %v", i, err)
		}
		newest = info
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if backups[0].Name != newest.Name {
		t.Errorf("newest backup should survive rotation, got %s want %s", backups[0].Name, newest.Name)
	}
	if _, err := os.Stat(filepath.Join(mgr.Dir(), "steady-20261019-090000.db")); !os.IsNotExist(err) {
		t.Errorf("oldest same-second backup should have been rotated out, stat err %v", err)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	if _, err := mgr.Create(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "steady-garbage.db", "steady-20261019.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("expected only the real backup, got %d", len(backups))
	}
}

func TestListWithoutBackupDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "steady.db"))
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("expected empty list, got %v (err %v)", backups, err)
	}
}

func TestRotation(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	mgr := NewManager(dbPath).WithClock(ticker(start))

	var newest Info
	for i := 0; i < constants.MaxBackups+3; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("backup %d failed: %v", i, err)
		}
		newest = info
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if backups[0].Name != newest.Name {
		t.Errorf("newest backup should survive rotation, got %s", backups[0].Name)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath, store := setupTestDB(t)
	mgr := NewManager(dbPath).WithClock(ticker(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	addHabit(t, store, "Read")
	store.Close()

	safety, err := mgr.Restore(snapshot.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety.Path == "" {
		t.Error("expected a safety backup of the replaced database")
	}

	restored := sqlite.NewStore(dbPath)
	if err := restored.Load(); err != nil {
		t.Fatal(err)
	}
	defer restored.Close()
	habits, _ := restored.GetAllHabits(true)
	if len(habits) != 1 || habits[0].Title != "Walk" {
		t.Errorf("expected only the original habit after restore, got %+v", habits)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected restore of a bogus file to fail")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected restore of a missing file to fail")
	}
}

func TestResolve(t *testing.T) {
	dbPath, _ := setupTestDB(t)
	mgr := NewManager(dbPath)
	info, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	for _, ref := range []string{info.Path, info.Name} {
		got, err := mgr.Resolve(ref)
		if err != nil || got != info.Path {
			t.Errorf("Resolve(%q) = %q, %v", ref, got, err)
		}
	}
	if _, err := mgr.Resolve("steady-19990101-000000.db"); err == nil {
		t.Error("expected unknown backup to fail")
	}
}
