package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// acquireLock enforces a single running instance. Two tuners fighting over
// one track log file (and one audio device) helps nobody. The lock is a
// pid file; a leftover one from a dead process is taken over silently.
func acquireLock() (release func(), err error) {
	path := filepath.Join(os.TempDir(), "etere.lock")

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		if pid, ok := lockHolder(path); ok && processAlive(pid) {
			return nil, fmt.Errorf("another etere instance is running (pid %d)", pid)
		}
		// Stale lock from a crashed instance.
		os.Remove(path)
	}

	return nil, fmt.Errorf("could not acquire lock file %s", path)
}

func lockHolder(path string) (int, bool) {
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

func processAlive(pid int) bool {
	// Signal 0 probes for existence without touching the process.
	return syscall.Kill(pid, 0) == nil
}
