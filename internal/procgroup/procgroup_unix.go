// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build unix

package procgroup

import (
	"os/exec"
	"syscall"
	"time"
)

func set(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func killGroup(cmd *exec.Cmd, grace time.Duration) {
	pid := cmd.Process.Pid

	// Negative PID targets the whole group; Setpgid at spawn time made the
	// child the group leader with PGID == PID.
	if err := signalGroup(pid, syscall.SIGTERM); err != nil {
		// PGID kill restricted or group already gone; fall back to the root.
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}

	time.AfterFunc(grace, func() {
		if err := signalGroup(pid, syscall.SIGKILL); err != nil {
			_ = cmd.Process.Kill()
		}
	})
}

func signalGroup(pid int, sig syscall.Signal) error {
	if err := syscall.Kill(-pid, sig); err != nil {
		if err == syscall.ESRCH {
			return nil
		}
		return err
	}
	return nil
}
