// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package fetch drives the external extraction tool across its strategy
// variants, downloads the source media into a scratch directory and hands it
// to the normalizer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/clipfetch/internal/config"
	"github.com/ManuGH/clipfetch/internal/execx"
	"github.com/ManuGH/clipfetch/internal/log"
	"github.com/ManuGH/clipfetch/internal/metrics"
)

// ExtractorError reports a failed extraction attempt. Message carries the
// bounded stderr tail used for client-facing error classification.
type ExtractorError struct {
	Variant string
	Message string
	Err     error
}

func (e *ExtractorError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("extraction failed (api=%s): %s", e.Variant, e.Message)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractorError) Unwrap() error { return e.Err }

// Normalizer converts a downloaded file into a QuickTime-safe MP4.
// Implemented by media.Normalizer.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Service downloads and normalizes media for one job at a time. It holds no
// per-job state and is safe for concurrent use.
type Service struct {
	runner execx.Runner
}

// NewService creates a fetch service backed by the given process runner.
func NewService(runner execx.Runner) *Service {
	return &Service{runner: runner}
}

// Fetch resolves rawURL via yt-dlp into scratchDir and returns the path of
// the normalized video. Twitter/X URLs walk the configured API variant
// sequence, stopping at the first success; only the last variant's failure
// surfaces. All other URLs get exactly one attempt.
func (s *Service) Fetch(ctx context.Context, cfg config.Config, rawURL, scratchDir string, norm Normalizer) (string, error) {
	logger := log.WithComponentFromContext(ctx, "fetcher")
	logger.Info().Str("url", rawURL).Msg("starting download")

	variants := []string{""}
	multi := IsTwitterURL(rawURL)
	if multi {
		variants = cfg.TwitterVariants()
	}

	var lastErr error
	for _, variant := range variants {
		path, err := s.attempt(ctx, cfg, rawURL, scratchDir, variant, norm)
		if err == nil {
			metrics.FetchAttempts.WithLabelValues(variantLabel(variant), "success").Inc()
			return path, nil
		}
		metrics.FetchAttempts.WithLabelValues(variantLabel(variant), "failure").Inc()
		logger.Error().Err(err).Str("api", variant).Msg("download attempt failed")
		lastErr = err
		if !multi {
			break
		}
	}
	if lastErr == nil {
		lastErr = &ExtractorError{Message: "download failed with unknown error"}
	}
	return "", lastErr
}

func (s *Service) attempt(ctx context.Context, cfg config.Config, rawURL, scratchDir, variant string, norm Normalizer) (string, error) {
	res, err := s.runner.Run(ctx, execx.Spec{
		Bin:     cfg.YtDlpBin,
		Args:    buildArgs(cfg, scratchDir, variant, rawURL),
		Timeout: cfg.FetchTimeout,
	})
	if err != nil {
		return "", &ExtractorError{Variant: variant, Message: extractorMessage(res, err), Err: err}
	}

	downloaded := resolveDownloadPath(reportedPath(res.Stdout))
	if downloaded == "" {
		return "", &ExtractorError{Variant: variant, Message: "extractor reported no output file"}
	}
	fi, err := os.Stat(downloaded)
	if err != nil {
		return "", fmt.Errorf("downloaded file not found: %s", downloaded)
	}

	logger := log.WithComponentFromContext(ctx, "fetcher")
	logger.Info().
		Str("path", downloaded).
		Int64("bytes", fi.Size()).
		Msg("download complete")

	return norm.Normalize(ctx, downloaded, scratchDir)
}

// reportedPath extracts the final file path printed by the tool; the last
// non-empty stdout line wins.
func reportedPath(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// resolveDownloadPath handles extension changes done by the merge step: when
// the reported file is gone but an .mp4 sibling exists, the sibling is the
// real output.
func resolveDownloadPath(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if strings.EqualFold(filepath.Ext(path), ".mp4") {
		return path
	}
	sibling := strings.TrimSuffix(path, filepath.Ext(path)) + ".mp4"
	if _, err := os.Stat(sibling); err == nil {
		return sibling
	}
	return path
}

// extractorMessage prefers the stderr tail over the raw exec error; the tail
// is what carries the tool's human-readable failure reason.
func extractorMessage(res execx.Result, err error) string {
	if tail := strings.TrimSpace(res.Stderr); tail != "" {
		return tail
	}
	var exitErr *execx.ExitError
	if errors.As(err, &exitErr) && exitErr.Stderr != "" {
		return exitErr.Stderr
	}
	return err.Error()
}

func variantLabel(variant string) string {
	if variant == "" {
		return "default"
	}
	return variant
}
