// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package execx runs external command-line tools with bounded output
// capture, deadline enforcement and process-group reaping on timeout.
package execx

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/ManuGH/clipfetch/internal/log"
	"github.com/ManuGH/clipfetch/internal/metrics"
	"github.com/ManuGH/clipfetch/internal/procgroup"
)

// stderrTailLines bounds how much stderr is retained for error messages.
const stderrTailLines = 50

// Spec describes one external process invocation.
type Spec struct {
	Bin     string
	Args    []string
	Dir     string        // working directory, empty inherits
	Timeout time.Duration // 0 disables the outer deadline
}

// Result captures the observable outcome of a completed invocation.
type Result struct {
	Stdout   string
	Stderr   string // bounded tail
	ExitCode int
}

// Runner executes external commands. Implemented by CommandRunner; tests
// inject fakes.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// CommandRunner is the production Runner backed by os/exec.
type CommandRunner struct {
	// KillGrace is how long a timed-out process group gets between SIGTERM
	// and SIGKILL.
	KillGrace time.Duration
}

// NewRunner returns a CommandRunner with a 5s kill grace.
func NewRunner() *CommandRunner {
	return &CommandRunner{KillGrace: 5 * time.Second}
}

// Run executes the spec and blocks until the process exits or the deadline
// fires. On timeout the whole process group is reaped and ErrTimeout is
// returned; a non-zero exit surfaces as *ExitError with the stderr tail.
func (r *CommandRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	// #nosec G204 - binaries are resolved from configuration, args are built
	// by this codebase, never from raw request input
	cmd := exec.Command(spec.Bin, spec.Args...)
	cmd.Dir = spec.Dir
	procgroup.Set(cmd)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("pipe stderr: %w", err)
	}

	metrics.ProcessInvocations.WithLabelValues(spec.Bin).Inc()
	start := time.Now()

	if err := cmd.Start(); err != nil {
		metrics.ProcessFailures.WithLabelValues(spec.Bin, "spawn").Inc()
		if errors.Is(err, exec.ErrNotFound) {
			return Result{}, fmt.Errorf("%s: %w", spec.Bin, ErrNotFound)
		}
		return Result{}, fmt.Errorf("start %s: %w", spec.Bin, err)
	}

	ring := NewLineRing(stderrTailLines)
	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		scanLines(stderrPipe, ring)
	}()

	waitDone := make(chan error, 1)
	go func() {
		<-scanDone
		waitDone <- cmd.Wait()
	}()

	select {
	case err = <-waitDone:
	case <-runCtx.Done():
		procgroup.KillGroup(cmd, r.KillGrace)
		<-waitDone // observe the actual exit before returning
		metrics.ProcessFailures.WithLabelValues(spec.Bin, "timeout").Inc()
		logger := log.FromContext(ctx)
		logger.Warn().
			Str("bin", spec.Bin).
			Dur("timeout", spec.Timeout).
			Msg("process group reaped after deadline")
		if spec.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return Result{Stderr: ring.Tail()}, &TimeoutError{Bin: spec.Bin, Timeout: spec.Timeout}
		}
		return Result{Stderr: ring.Tail()}, runCtx.Err()
	}

	metrics.ProcessDuration.WithLabelValues(spec.Bin).Observe(time.Since(start).Seconds())

	res := Result{Stdout: stdout.String(), Stderr: ring.Tail()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			metrics.ProcessFailures.WithLabelValues(spec.Bin, "exit").Inc()
			return res, &ExitError{Bin: spec.Bin, ExitCode: res.ExitCode, Stderr: res.Stderr}
		}
		metrics.ProcessFailures.WithLabelValues(spec.Bin, "wait").Inc()
		return res, fmt.Errorf("wait %s: %w", spec.Bin, err)
	}
	return res, nil
}

func scanLines(r io.Reader, ring *LineRing) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		ring.Add(scanner.Text())
	}
}
