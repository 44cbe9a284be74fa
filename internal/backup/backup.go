// Package backup snapshots the SQLite booking-history database.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
)

const (
	// Keep is how many snapshots survive rotation.
	Keep = 14
	// DirName is the snapshot directory next to the database.
	DirName = "backups"

	filePrefix = constants.AppName + "-history-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

// ErrNoDatabase is returned when there is nothing to snapshot.
var ErrNoDatabase = errors.New("database does not exist")

// Snapshot describes one backup file.
type Snapshot struct {
	Path    string
	Taken   time.Time
	Size    int64
	Counter int
}

// Manager creates, lists and restores snapshots of one database file.
type Manager struct {
	dbPath string
	dir    string
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		now:    time.Now,
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and prunes the oldest beyond Keep.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.prune(); err != nil {
		logger.Warn("failed to prune old backups", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	logger.Debug("backup created", "path", path)
	return path, nil
}

// nextPath names the snapshot one past the highest counter already taken
// for the current second, so a pruned name is never reused.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(stampFmt)
	snaps, err := m.List()
	if err != nil {
		return "", err
	}

	next := 0
	for _, snap := range snaps {
		if snap.Taken.Format(stampFmt) == stamp && snap.Counter >= next {
			next = snap.Counter + 1
		}
	}
	name := filePrefix + stamp + fileSuffix
	if next > 0 {
		name = fmt.Sprintf("%s%s-%d%s", filePrefix, stamp, next, fileSuffix)
	}

	path := filepath.Join(m.dir, name)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return "", fmt.Errorf("backup file already exists: %s", path)
	}
	return path, nil
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := verify(db); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	_, err = db.Exec("VACUUM INTO ?", dst)
	return err
}

func verify(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// List returns snapshots newest first. Files with other names are ignored.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		snap, ok := parseName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snap.Path = filepath.Join(m.dir, e.Name())
		snap.Size = info.Size()
		out = append(out, snap)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Taken.Equal(out[j].Taken) {
			return out[i].Counter > out[j].Counter
		}
		return out[i].Taken.After(out[j].Taken)
	})
	return out, nil
}

func parseName(name string) (Snapshot, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return Snapshot{}, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)

	var counter int
	if len(body) > len(stampFmt) {
		if _, err := fmt.Sscanf(body[len(stampFmt):], "-%d", &counter); err != nil {
			return Snapshot{}, false
		}
		body = body[:len(stampFmt)]
	}
	t, err := time.ParseInLocation(stampFmt, body, time.Local)
	if err != nil {
		return Snapshot{}, false
	}
	return Snapshot{Taken: t, Counter: counter}, true
}

func (m *Manager) prune() error {
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := Keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", snaps[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first. The caller must close its connection.
func (m *Manager) Restore(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verifyFile(path); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		if previous, err = m.create(); err != nil {
			return "", fmt.Errorf("failed to back up current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to restore database: %w", err)
	}
	return previous, nil
}

func verifyFile(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(db)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
