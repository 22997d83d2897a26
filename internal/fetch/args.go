// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fetch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/clipfetch/internal/config"
)

// outputTemplate caps the title at 200 bytes; combined with
// --restrict-filenames it keeps scratch paths shell- and filesystem-safe.
const outputTemplate = "%(title).200B.%(ext)s"

// buildArgs constructs the yt-dlp invocation for one extraction attempt.
// The argument set mirrors the QuickTime-oriented option profile: prefer
// H.264+AAC, merge into MP4, remux to MP4 afterwards, bounded retries and
// fragment concurrency. variant selects the Twitter extractor API; empty
// means no extractor override.
func buildArgs(cfg config.Config, scratchDir, variant, rawURL string) []string {
	args := []string{
		"--format", cfg.Format,
		"--merge-output-format", "mp4",
		"--remux-video", "mp4",
		"--no-playlist",
		"--retries", "5",
		"--fragment-retries", "5",
		"--file-access-retries", "3",
		"--extractor-retries", "3",
		"--restrict-filenames",
		"--socket-timeout", "30",
		"--concurrent-fragments", "4",
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
		"--paths", scratchDir,
		"--output", outputTemplate,
	}

	// Point yt-dlp at the resolved ffmpeg when it lives outside PATH.
	if dir := binaryDir(cfg.FFmpegBin); dir != "" {
		args = append(args, "--ffmpeg-location", dir)
	}

	if cookies := stageCookies(cfg.CookiesFile, scratchDir); cookies != "" {
		args = append(args, "--cookies", cookies)
	}

	if cfg.UserAgent != "" {
		args = append(args, "--user-agent", cfg.UserAgent)
	}

	if variant != "" {
		args = append(args, "--extractor-args", fmt.Sprintf("twitter:api=%s", variant))
	}

	return append(args, rawURL)
}

func binaryDir(bin string) string {
	if !strings.ContainsRune(bin, filepath.Separator) {
		return ""
	}
	return filepath.Dir(bin)
}

// stageCookies copies the configured cookies file into the scratch directory
// so yt-dlp can rewrite it without touching the original. Returns the staged
// path, or "" when no usable cookies file is configured.
func stageCookies(cookiesFile, scratchDir string) string {
	if cookiesFile == "" {
		return ""
	}
	if _, err := os.Stat(cookiesFile); err != nil {
		return ""
	}
	staged := filepath.Join(scratchDir, "cookies.txt")
	if err := copyFile(cookiesFile, staged); err != nil {
		return ""
	}
	return staged
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
