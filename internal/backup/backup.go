// Package backup keeps rotating snapshots of the SQLite database next to it.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/steady/internal/constants"
	"github.com/julianstephens/steady/internal/logger"
)

const nameLayout = "20060102-150405"

// ErrNoDatabase is returned when there is nothing to back up.
var ErrNoDatabase = errors.New("database does not exist")

// backupName matches steady-YYYYMMDD-HHMMSS.db with an optional -N counter.
var backupName = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) +
	`(\d{8}-\d{6})(?:-(\d+))?` + regexp.QuoteMeta(constants.BackupFileSuffix) + `$`)

// Info describes one backup file.
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	// Seq is the -N counter for backups taken within the same second, 0 when absent.
	Seq  int
	Size int64
}

type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager returns a manager that writes into a backups directory beside dbPath.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

// WithClock overrides the clock used for backup names.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Dir() string { return m.backupDir }

// Create snapshots the database and prunes backups past the retention limit.
func (m *Manager) Create() (Info, error) {
	info, err := m.create()
	if err != nil {
		return Info{}, err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return info, nil
}

func (m *Manager) create() (Info, error) {
	if _, err := os.Stat(m.dbPath); errors.Is(err, os.ErrNotExist) {
		return Info{}, fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0o700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return Info{}, err
	}
	if err := m.snapshot(path); err != nil {
		return Info{}, fmt.Errorf("failed to back up database: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	logger.Debug("Created backup", "path", path, "size", st.Size())
	ts, seq, _ := parseName(filepath.Base(path))
	return Info{Path: path, Name: filepath.Base(path), Timestamp: ts, Seq: seq, Size: st.Size()}, nil
}

// nextPath names the backup for the current second, continuing after the
// highest -N counter already used for it.
func (m *Manager) nextPath() (string, error) {
	at := m.now().UTC().Truncate(time.Second)
	stamp := at.Format(nameLayout)
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return "", fmt.Errorf("failed to read backup directory: %w", err)
	}
	next := 0
	for _, entry := range entries {
		ts, seq, ok := parseName(entry.Name())
		if ok && ts.Equal(at) && seq+1 > next {
			next = seq + 1
		}
	}
	if next == 0 {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix), nil
	}
	return filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, next, constants.BackupFileSuffix)), nil
}

// snapshot writes a consistent copy with VACUUM INTO, falling back to a
// plain file copy when the engine refuses.
func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", readOnly(m.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file instead", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns backups newest first. Files that do not look like backups are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Name:      entry.Name(),
			Timestamp: ts,
			Seq:       seq,
			Size:      st.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Seq > backups[j].Seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func parseName(name string) (time.Time, int, bool) {
	match := backupName.FindStringSubmatch(name)
	if match == nil {
		return time.Time{}, 0, false
	}
	ts, err := time.Parse(nameLayout, match[1])
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if match[2] != "" {
		if seq, err = strconv.Atoi(match[2]); err != nil {
			return time.Time{}, 0, false
		}
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Name, err)
		}
	}
	return nil
}

// Resolve accepts a backup path or a file name inside the backup directory.
func (m *Manager) Resolve(ref string) (string, error) {
	if _, err := os.Stat(ref); err == nil {
		return ref, nil
	}
	path := filepath.Join(m.backupDir, filepath.Base(ref))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup not found: %s", ref)
	}
	return path, nil
}

// Restore replaces the database with the given backup. The current database is
// snapshotted first and returned as safety so the restore can be undone.
func (m *Manager) Restore(path string) (safety Info, err error) {
	if err := Verify(path); err != nil {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, statErr := os.Stat(m.dbPath); statErr == nil {
		// Not rotated, so the safety copy cannot evict the backup being restored.
		safety, err = m.create()
		if err != nil {
			return Info{}, fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return safety, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tmp, "error", rmErr)
		}
		return safety, fmt.Errorf("failed to restore database: %w", err)
	}
	// Stale WAL files would be replayed over the restored database.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(m.dbPath + suffix)
	}
	logger.Info("Restored database from backup", "backup", filepath.Base(path))
	return safety, nil
}

// Verify checks that path is a readable steady database.
func Verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", readOnly(path))
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func verify(db *sql.DB) error {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'settings'").Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return errors.New("not a steady database")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func readOnly(path string) string {
	return "file:" + filepath.ToSlash(path) + "?mode=ro"
}
