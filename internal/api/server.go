// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api provides the HTTP server for the clipfetch service.
package api

import (
	"context"

	"github.com/ManuGH/clipfetch/internal/config"
	"github.com/ManuGH/clipfetch/internal/execx"
	"github.com/ManuGH/clipfetch/internal/fetch"
	"github.com/ManuGH/clipfetch/internal/health"
	"github.com/ManuGH/clipfetch/internal/log"
	"github.com/ManuGH/clipfetch/internal/media"
)

// Pipeline resolves a URL into a normalized local video file inside the
// job's scratch directory. Implemented by the yt-dlp pipeline; tests stub it.
type Pipeline interface {
	Run(ctx context.Context, cfg config.Config, rawURL, scratchDir string) (string, error)
}

// Server is the HTTP API server.
type Server struct {
	srvCfg   config.ServerConfig
	version  string
	pipeline Pipeline
	health   *health.Manager
}

// New creates a Server wired to the production download pipeline.
func New(srvCfg config.ServerConfig, version string) *Server {
	runner := execx.NewRunner()
	s := &Server{
		srvCfg:   srvCfg,
		version:  version,
		pipeline: &ytdlpPipeline{runner: runner, svc: fetch.NewService(runner)},
		health:   newHealthManager(version),
	}
	s.warnIfUnprotected()
	return s
}

// NewWithPipeline creates a Server with an injected pipeline (tests).
func NewWithPipeline(srvCfg config.ServerConfig, version string, p Pipeline) *Server {
	return &Server{
		srvCfg:   srvCfg,
		version:  version,
		pipeline: p,
		health:   newHealthManager(version),
	}
}

// HealthManager exposes the health manager for probe wiring.
func (s *Server) HealthManager() *health.Manager {
	return s.health
}

func newHealthManager(version string) *health.Manager {
	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewToolChecker("yt-dlp", func() string {
		return config.FromEnv().YtDlpBin
	}))
	hm.RegisterChecker(health.NewToolChecker("ffmpeg", func() string {
		return config.FromEnv().FFmpegBin
	}))
	return hm
}

// warnIfUnprotected logs once at startup when no auth tokens are configured.
// The API then accepts every request, which is implicitly insecure.
func (s *Server) warnIfUnprotected() {
	if len(config.FromEnv().AuthTokens) == 0 {
		logger := log.WithComponent("api")
		logger.Warn().
			Msg("no CLIPFETCH_AUTH_TOKENS configured - API is unprotected!")
	}
}

// ytdlpPipeline is the production pipeline: yt-dlp extraction followed by
// ffprobe/ffmpeg normalization, tool paths taken from the per-job config.
type ytdlpPipeline struct {
	runner execx.Runner
	svc    *fetch.Service
}

func (p *ytdlpPipeline) Run(ctx context.Context, cfg config.Config, rawURL, scratchDir string) (string, error) {
	prober := media.NewProber(p.runner, cfg.FFprobeBin)
	norm := media.NewNormalizer(p.runner, cfg.FFmpegBin, prober)
	return p.svc.Fetch(ctx, cfg, rawURL, scratchDir, norm)
}
