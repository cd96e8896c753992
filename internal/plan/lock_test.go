package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSessionLockAcquireRelease(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), PlanFileName)
	lock := NewSessionLock(planPath)

	if err := lock.Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(planPath + lockSuffix)
	if err != nil {
		t.Fatalf("lock file not created: %v", err)
	}
	if strings.TrimSpace(string(data)) != fmt.Sprintf("%d", os.Getpid()) {
		t.Errorf("lock file should hold our PID, got %q", data)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(planPath + lockSuffix); !os.IsNotExist(err) {
		t.Error("lock file should be removed after release")
	}

	// Releasing again is idempotent.
	if err := lock.Release(); err != nil {
		t.Fatalf("double release should not fail: %v", err)
	}
}

func TestSessionLockHeldByLiveProcess(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), PlanFileName)

	if err := NewSessionLock(planPath).Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := NewSessionLock(planPath).Acquire()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSessionLockStealsStaleLock(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), PlanFileName)

	// Invalid PID content counts as stale.
	if err := os.WriteFile(planPath+lockSuffix, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("failed to seed stale lock: %v", err)
	}

	if err := NewSessionLock(planPath).Acquire(); err != nil {
		t.Fatalf("stale lock should be cleaned up: %v", err)
	}
}
