// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package execx

import (
	"strings"
	"sync"
)

// LineRing retains the most recent lines written to it. Used to keep a
// bounded stderr tail for error messages without buffering entire streams.
type LineRing struct {
	lines []string
	pos   int
	full  bool
	mu    sync.Mutex
}

// NewLineRing creates a ring retaining up to size lines.
func NewLineRing(size int) *LineRing {
	if size <= 0 {
		size = 1
	}
	return &LineRing{lines: make([]string, size)}
}

// Add appends a line, evicting the oldest once the ring is full.
func (r *LineRing) Add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.pos] = line
	r.pos = (r.pos + 1) % len(r.lines)
	if r.pos == 0 {
		r.full = true
	}
}

// Lines returns the retained lines in arrival order.
func (r *LineRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]string(nil), r.lines[:r.pos]...)
	}
	out := make([]string, len(r.lines))
	copy(out, r.lines[r.pos:])
	copy(out[len(r.lines)-r.pos:], r.lines[:r.pos])
	return out
}

// Tail returns the retained lines joined with newlines.
func (r *LineRing) Tail() string {
	return strings.Join(r.Lines(), "\n")
}
