// Package pid keeps a single cpugraph instance per PID directory.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/cpugraph/internal/errors"
)

const fileName = "cpugraph.pid"

// Path is the PID file inside dir, or inside the temp dir when dir is empty.
func Path(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, fileName)
}

// Write records the current process ID. A PID file naming a live process
// fails with ErrAlreadyRunning; a stale or unreadable one is replaced.
func Write(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if running, ok := readPID(path); ok && alive(running) && running != os.Getpid() {
		return errFactory.WithData(ErrAlreadyRunning, running)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file if present.
func Remove(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
