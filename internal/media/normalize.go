// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ManuGH/clipfetch/internal/execx"
	"github.com/ManuGH/clipfetch/internal/log"
	"github.com/ManuGH/clipfetch/internal/metrics"
)

const (
	normalizeTimeout = 600 * time.Second
	outputSuffix     = ".qt.mp4"
)

// ProcessingError reports a pipeline failure after the media has been
// downloaded (probe, transcode, missing output).
type ProcessingError struct {
	Reason string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Normalizer produces QuickTime-safe MP4s, re-encoding only when the
// compatibility policy requires it.
type Normalizer struct {
	runner execx.Runner
	prober *Prober
	bin    string
}

// NewNormalizer creates a Normalizer using the given runner, ffmpeg binary
// and prober.
func NewNormalizer(runner execx.Runner, bin string, prober *Prober) *Normalizer {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Normalizer{runner: runner, prober: prober, bin: bin}
}

// Normalize converts the file at inputPath into a stream-optimized MP4 in
// outputDir and returns the output path. When ffmpeg is unavailable the
// original file is returned unchanged with a warning; that is the only
// tolerated degradation. Everything else fails with *ProcessingError.
func (n *Normalizer) Normalize(ctx context.Context, inputPath, outputDir string) (string, error) {
	logger := log.WithComponentFromContext(ctx, "normalizer")

	fi, err := os.Stat(inputPath)
	if err != nil || fi.Size() == 0 {
		return "", &ProcessingError{Reason: fmt.Sprintf("invalid input file: %s", inputPath), Err: err}
	}

	if !toolAvailable(n.bin) {
		logger.Warn().Str("bin", n.bin).Msg("ffmpeg not found, returning original file")
		metrics.NormalizeTotal.WithLabelValues("passthrough").Inc()
		return inputPath, nil
	}

	info := n.prober.Probe(ctx, inputPath)
	fix, reason := NeedsFix(info)

	outputPath := filepath.Join(outputDir, stem(inputPath)+outputSuffix)

	var args []string
	if fix {
		logger.Info().Str("reason", reason).Msg("re-encoding for QuickTime compatibility")
		metrics.NormalizeTotal.WithLabelValues("reencode").Inc()
		args = reencodeArgs(inputPath, outputPath)
	} else {
		logger.Info().Msg("remuxing for streaming optimization")
		metrics.NormalizeTotal.WithLabelValues("remux").Inc()
		args = remuxArgs(inputPath, outputPath)
	}

	if _, err := n.runner.Run(ctx, execx.Spec{Bin: n.bin, Args: args, Timeout: normalizeTimeout}); err != nil {
		return "", &ProcessingError{Reason: "video processing failed", Err: err}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", &ProcessingError{Reason: "video processing produced no output", Err: err}
	}
	return outputPath, nil
}

// reencodeArgs scales to the nearest even dimensions while squaring the
// sample aspect ratio, then encodes H.264 (CRF 23) with 128k AAC.
func reencodeArgs(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-vf", "scale='trunc(iw*sar/2)*2:trunc(ih/2)*2',setsar=1",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-brand", "mp42",
		output,
	}
}

// remuxArgs repackages the streams without re-encoding, relocating the moov
// atom to the front.
func remuxArgs(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-c", "copy",
		"-movflags", "+faststart",
		"-brand", "mp42",
		output,
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func toolAvailable(bin string) bool {
	if strings.ContainsRune(bin, filepath.Separator) {
		fi, err := os.Stat(bin)
		return err == nil && !fi.IsDir()
	}
	_, err := exec.LookPath(bin)
	return err == nil
}
