//go:build !windows

package process

// Notes:
// - KillGroup is exercised against a real child started with Isolate; PID 0
//   and negative PIDs are never passed to the kernel because they would
//   target the test's own process group.
// These are acceptable gaps: we test observable behavior, not syscall internals.

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestKillGroup - Process group termination
// ---------------------------------------------------------------------------

func TestKillGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	if err := KillGroup(0); !errors.Is(err, syscall.ESRCH) {
		t.Errorf("KillGroup(0) = %v, want ESRCH", err)
	}
	if err := KillGroup(-5); !errors.Is(err, syscall.ESRCH) {
		t.Errorf("KillGroup(-5) = %v, want ESRCH", err)
	}
}

func TestKillGroup_IsolatedChild(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command("sleep", "30")
	Isolate(cmd)
	if !cmd.SysProcAttr.Setpgid {
		t.Fatal("Isolate did not set Setpgid")
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	if err := KillGroup(cmd.Process.Pid); err != nil {
		t.Fatalf("KillGroup() error = %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected killed process to report an error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process group still alive after KillGroup")
	}
}
