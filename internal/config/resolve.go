// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// wellKnownDirs are probed when a tool is neither configured explicitly nor
// present on PATH. Matches the layout of the container images we ship.
var wellKnownDirs = []string{"/usr/local/bin", "/usr/bin"}

// ResolveBinary returns an effective binary path for the named tool.
//
// Resolution order:
//  1. Explicit override (e.g. CLIPFETCH_FFMPEG_BIN)
//  2. PATH lookup
//  3. Well-known directories
//  4. The bare name (caller surfaces the spawn failure)
func ResolveBinary(name, override string) string {
	return resolveBinaryWithStat(name, override, os.Stat)
}

func resolveBinaryWithStat(name, override string, stat func(string) (os.FileInfo, error)) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	for _, dir := range wellKnownDirs {
		candidate := filepath.Join(dir, name)
		if fi, err := stat(candidate); err == nil && !fi.IsDir() {
			return candidate
		}
	}
	return name
}

// ResolveFFprobeBin returns an effective ffprobe binary path.
//
// Resolution order:
//  1. Explicit override (CLIPFETCH_FFPROBE_BIN)
//  2. Derive from a concrete ffmpeg path (.../ffmpeg -> .../ffprobe) if the
//     derived binary exists
//  3. Standard resolution for "ffprobe"
func ResolveFFprobeBin(override, ffmpegBin string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	ffmpegBin = strings.TrimSpace(ffmpegBin)
	if strings.ContainsRune(ffmpegBin, '/') && filepath.Base(ffmpegBin) == "ffmpeg" {
		candidate := filepath.Join(filepath.Dir(ffmpegBin), "ffprobe")
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate
		}
	}
	return ResolveBinary("ffprobe", "")
}
