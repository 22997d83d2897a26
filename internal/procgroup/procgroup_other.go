// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !unix

package procgroup

import (
	"os"
	"os/exec"
	"time"
)

func set(cmd *exec.Cmd) {
	// Process groups are a unix concept; best effort elsewhere.
}

func killGroup(cmd *exec.Cmd, grace time.Duration) {
	// Fallback path: only the root process is signalled.
	_ = cmd.Process.Signal(os.Interrupt)
	time.AfterFunc(grace, func() {
		_ = cmd.Process.Kill()
	})
}
