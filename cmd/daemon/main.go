// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command daemon runs the clipfetch HTTP service: an authenticated endpoint
// that downloads a video URL via yt-dlp and returns a QuickTime-friendly MP4.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/clipfetch/internal/api"
	"github.com/ManuGH/clipfetch/internal/config"
	"github.com/ManuGH/clipfetch/internal/daemon"
	cflog "github.com/ManuGH/clipfetch/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Optional .env for local development; the environment always wins.
	envLoaded := godotenv.Load() == nil

	srvCfg := config.ServerFromEnv()

	cflog.Configure(cflog.Config{
		Level:   srvCfg.LogLevel,
		Service: "clipfetch",
		Version: version,
	})
	logger := cflog.WithComponent("daemon")

	if envLoaded {
		logger.Info().Msg("loaded environment overrides from .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobCfg := config.FromEnv()
	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", srvCfg.ListenAddr).
		Msg("starting clipfetch")
	logger.Info().Msgf("→ yt-dlp: %s", jobCfg.YtDlpBin)
	logger.Info().Msgf("→ ffmpeg: %s (ffprobe: %s)", jobCfg.FFmpegBin, jobCfg.FFprobeBin)
	if n := len(jobCfg.AuthTokens); n > 0 {
		logger.Info().Msgf("→ auth tokens: %d configured", n)
	}
	if srvCfg.MetricsAddr != "" {
		logger.Info().Msgf("→ metrics: %s", srvCfg.MetricsAddr)
	}

	s := api.New(srvCfg, version)

	mgr, err := daemon.NewManager(srvCfg, daemon.Deps{
		Logger:         cflog.Base(),
		APIHandler:     s.Handler(),
		MetricsHandler: promhttp.Handler(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create daemon manager")
	}

	if err := mgr.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("daemon failed")
	}
	logger.Info().Msg("server exiting")
}
