// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fetch

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ManuGH/clipfetch/internal/config"
)

// argValue returns the value following the named flag, or "" when absent.
func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildArgs_Baseline(t *testing.T) {
	cfg := config.Config{Format: config.DefaultFormat, FFmpegBin: "ffmpeg"}
	scratch := t.TempDir()
	args := buildArgs(cfg, scratch, "", "https://example.com/v/1")

	if got := argValue(args, "--format"); got != config.DefaultFormat {
		t.Fatalf("--format = %q, want default format", got)
	}
	if got := argValue(args, "--merge-output-format"); got != "mp4" {
		t.Fatalf("--merge-output-format = %q, want mp4", got)
	}
	if got := argValue(args, "--paths"); got != scratch {
		t.Fatalf("--paths = %q, want scratch dir %q", got, scratch)
	}
	if got := argValue(args, "--output"); got != outputTemplate {
		t.Fatalf("--output = %q, want %q", got, outputTemplate)
	}
	if got := argValue(args, "--print"); got != "after_move:filepath" {
		t.Fatalf("--print = %q, want after_move:filepath", got)
	}
	if !slices.Contains(args, "--no-playlist") {
		t.Fatal("args must include --no-playlist")
	}
	if !slices.Contains(args, "--restrict-filenames") {
		t.Fatal("args must include --restrict-filenames")
	}
	if slices.Contains(args, "--extractor-args") {
		t.Fatal("no extractor override expected without a variant")
	}
	if slices.Contains(args, "--ffmpeg-location") {
		t.Fatal("bare ffmpeg name must not produce --ffmpeg-location")
	}
	if last := args[len(args)-1]; last != "https://example.com/v/1" {
		t.Fatalf("last arg = %q, want the URL", last)
	}
}

func TestBuildArgs_TwitterVariant(t *testing.T) {
	cfg := config.Config{Format: config.DefaultFormat}
	args := buildArgs(cfg, t.TempDir(), "syndication", "https://x.com/u/status/1")

	if got := argValue(args, "--extractor-args"); got != "twitter:api=syndication" {
		t.Fatalf("--extractor-args = %q, want twitter:api=syndication", got)
	}
}

func TestBuildArgs_FFmpegLocation(t *testing.T) {
	cfg := config.Config{Format: config.DefaultFormat, FFmpegBin: "/opt/tools/ffmpeg"}
	args := buildArgs(cfg, t.TempDir(), "", "https://example.com/v/1")

	if got := argValue(args, "--ffmpeg-location"); got != "/opt/tools" {
		t.Fatalf("--ffmpeg-location = %q, want /opt/tools", got)
	}
}

func TestBuildArgs_UserAgent(t *testing.T) {
	cfg := config.Config{Format: config.DefaultFormat, UserAgent: "clipfetch-test/1.0"}
	args := buildArgs(cfg, t.TempDir(), "", "https://example.com/v/1")

	if got := argValue(args, "--user-agent"); got != "clipfetch-test/1.0" {
		t.Fatalf("--user-agent = %q, want configured agent", got)
	}
}

func TestStageCookies(t *testing.T) {
	scratch := t.TempDir()
	src := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(src, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	staged := stageCookies(src, scratch)
	if want := filepath.Join(scratch, "cookies.txt"); staged != want {
		t.Fatalf("stageCookies() = %q, want %q", staged, want)
	}
	data, err := os.ReadFile(staged)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Netscape HTTP Cookie File\n" {
		t.Fatalf("staged cookies content = %q", data)
	}
}

func TestStageCookies_MissingOrUnset(t *testing.T) {
	if got := stageCookies("", t.TempDir()); got != "" {
		t.Fatalf("stageCookies(unset) = %q, want empty", got)
	}
	if got := stageCookies("/nonexistent/cookies.txt", t.TempDir()); got != "" {
		t.Fatalf("stageCookies(missing) = %q, want empty", got)
	}
}

func TestBuildArgs_CookiesStaged(t *testing.T) {
	scratch := t.TempDir()
	src := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(src, []byte("cookies"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{Format: config.DefaultFormat, CookiesFile: src}

	args := buildArgs(cfg, scratch, "", "https://example.com/v/1")
	if got := argValue(args, "--cookies"); got != filepath.Join(scratch, "cookies.txt") {
		t.Fatalf("--cookies = %q, want staged copy inside scratch dir", got)
	}
}
