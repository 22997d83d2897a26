// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package media inspects downloaded video files and normalizes them into
// QuickTime-compatible MP4s using ffprobe and ffmpeg.
package media

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuGH/clipfetch/internal/execx"
	"github.com/ManuGH/clipfetch/internal/log"
)

const probeTimeout = 30 * time.Second

// ProbeResult is a read-only snapshot of the first video stream of one file.
// Zero values mean "unknown"; downstream policy treats unknown as compatible.
type ProbeResult struct {
	Codec  string
	SAR    string
	Width  int
	Height int
}

// Prober inspects local media files via ffprobe.
type Prober struct {
	runner execx.Runner
	bin    string
}

// NewProber creates a Prober using the given runner and ffprobe binary.
func NewProber(runner execx.Runner, bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{runner: runner, bin: bin}
}

// Probe returns stream metadata for the file at path. Probing is best
// effort: a missing tool, non-zero exit, timeout or malformed response all
// yield an empty ProbeResult rather than an error.
func (p *Prober) Probe(ctx context.Context, path string) ProbeResult {
	res, err := p.runner.Run(ctx, execx.Spec{
		Bin: p.bin,
		Args: []string{
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=codec_name,width,height,sample_aspect_ratio,display_aspect_ratio",
			"-of", "json",
			path,
		},
		Timeout: probeTimeout,
	})
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "prober")
		logger.Warn().
			Err(err).
			Str("path", path).
			Msg("ffprobe failed, assuming compatible")
		return ProbeResult{}
	}
	return parseProbeOutput([]byte(res.Stdout))
}

type probeData struct {
	Streams []struct {
		CodecName         string `json:"codec_name"`
		Width             int    `json:"width"`
		Height            int    `json:"height"`
		SampleAspectRatio string `json:"sample_aspect_ratio"`
	} `json:"streams"`
}

func parseProbeOutput(out []byte) ProbeResult {
	var data probeData
	if err := json.Unmarshal(out, &data); err != nil || len(data.Streams) == 0 {
		return ProbeResult{}
	}
	s := data.Streams[0]
	return ProbeResult{
		Codec:  s.CodecName,
		SAR:    s.SampleAspectRatio,
		Width:  s.Width,
		Height: s.Height,
	}
}
