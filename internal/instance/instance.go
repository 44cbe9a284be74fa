// Package instance keeps a long-running command to a single process per
// config directory.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	executableFunc  = currentExecutable
)

// ErrAlreadyRunning is returned when a live process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is a held pid lockfile.
type Lock struct {
	path string
	pid  int
}

func currentExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}

// Acquire writes "<pid>|<executable>" to dir/name. A lockfile left by a
// process that is gone, or whose pid now belongs to a different program,
// is replaced.
func Acquire(dir, name string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, name)
	exe := executableFunc()

	if pid, ok := holder(path, exe); ok {
		return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrAlreadyRunning, pid, path)
	}

	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s\n", pid, exe)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// holder returns the pid of a live process holding path.
func holder(path, exe string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 || pid == getpidFunc() {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, false
	}
	if exe != "" && process.Executable() != parts[1] {
		return 0, false
	}
	return pid, true
}

// Path returns the lockfile path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lockfile if it still belongs to this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(string(content)), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	return os.Remove(l.path)
}
