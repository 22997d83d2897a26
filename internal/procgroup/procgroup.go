// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package procgroup spawns external commands as process-group leaders so a
// timeout can reap the whole tree, descendants included.
package procgroup

import (
	"os/exec"
	"time"
)

// Set configures the command to start in a new process group.
// Mandatory for KillGroup to function as a group reaper.
func Set(cmd *exec.Cmd) {
	set(cmd)
}

// KillGroup terminates the command's process group tree: SIGTERM immediately,
// SIGKILL once the grace period elapses. The actual exit is observed by the
// caller's Wait. The process must have been spawned after procgroup.Set(cmd).
func KillGroup(cmd *exec.Cmd, grace time.Duration) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	killGroup(cmd, grace)
}
