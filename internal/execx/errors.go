// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package execx

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound marks a spawn failure because the binary does not exist.
var ErrNotFound = errors.New("executable not found")

// ErrTimeout marks an invocation that exceeded its deadline and was reaped.
var ErrTimeout = errors.New("process timed out")

// TimeoutError reports an invocation killed after exceeding its budget.
type TimeoutError struct {
	Bin     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Bin, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// ExitError reports a process that completed with a non-zero exit code.
// Stderr carries the bounded tail of the captured stderr stream.
type ExitError struct {
	Bin      string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Bin, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Bin, e.ExitCode, e.Stderr)
}
