package plan

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

const lockSuffix = ".lock"

// SessionLock prevents two research sessions from writing the same plan
// document. The store assumes a single writer; the lock enforces it across
// processes.
type SessionLock struct {
	path string
}

// NewSessionLock creates a lock manager for the plan document at planPath.
func NewSessionLock(planPath string) *SessionLock {
	return &SessionLock{path: planPath + lockSuffix}
}

// Acquire attempts to take the lock. Returns an error if another live process
// holds it. Locks left behind by dead processes are cleaned up automatically.
func (l *SessionLock) Acquire() error {
	if err := l.tryCreate(); err == nil {
		return nil
	} else if !os.IsExist(err) {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("failed to read existing lock file: %w", err)
	}

	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr == nil && processExists(pid) {
		return fmt.Errorf("a research session is already running (PID %d)", pid)
	}

	// Stale or invalid lock; remove it and try once more.
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale lock file: %w", err)
	}
	if err := l.tryCreate(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("lock acquired by another process during retry")
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

// tryCreate atomically creates the lock file holding our PID.
func (l *SessionLock) tryCreate() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", writeErr)
	}
	return nil
}

// Release removes the lock file. Releasing an unheld lock is not an error.
func (l *SessionLock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// processExists checks for a live process via signal 0.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
