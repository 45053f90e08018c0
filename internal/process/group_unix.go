//go:build !windows

// Package process contains platform-specific helpers for supervising
// external converter processes.
package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts cmd in its own process group so KillGroup also reaches the
// helpers it forks (soffice launches soffice.bin).
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillGroup sends SIGKILL to the process group led by pid.
func KillGroup(pid int) error {
	if pid <= 0 {
		return syscall.ESRCH
	}
	return syscall.Kill(-pid, syscall.SIGKILL)
}
