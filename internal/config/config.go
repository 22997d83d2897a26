// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the process configuration from the environment.
//
// Job-scoped settings (format selection, tool paths, cookies, extractor
// variant ordering, auth tokens) are re-read for every job via FromEnv so a
// changed environment takes effect without a restart. Server-scoped settings
// (listen addresses, rate limits) are read once at startup.
package config

import (
	"time"
)

// DefaultFormat prefers H.264 video plus AAC audio for QuickTime playback,
// falling back progressively to the best available streams.
const DefaultFormat = "bestvideo[vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo[vcodec^=avc1]+bestaudio/bestvideo+bestaudio/best"

// DefaultTwitterAPIOrder is the extractor API variant sequence tried for
// Twitter/X URLs, first success wins.
const DefaultTwitterAPIOrder = "graphql,legacy,syndication"

// Config holds the settings consumed by a single download job. It is built
// once per job and passed by parameter; it never changes while a job runs.
type Config struct {
	AuthTokens []string // accepted bearer tokens; empty disables auth

	Format      string // yt-dlp format selection expression
	YtDlpBin    string // resolved yt-dlp binary path
	FFmpegBin   string // resolved ffmpeg binary path
	FFprobeBin  string // resolved ffprobe binary path
	CookiesFile string // optional cookies file, copied into the scratch dir
	UserAgent   string // optional custom request User-Agent

	TwitterAPIOrder    []string // ordered extractor API variants for Twitter/X
	TwitterAPIFallback string   // single variant used when the order is empty

	FetchTimeout time.Duration // outer extraction deadline, 0 disables
}

// ServerConfig holds settings read once at process start.
type ServerConfig struct {
	ListenAddr      string
	MetricsAddr     string // empty disables the dedicated metrics listener
	LogLevel        string
	RateLimitPerMin int // per-IP /download requests per minute, 0 disables
	ShutdownTimeout time.Duration
}

// FromEnv builds the job configuration from the current environment.
func FromEnv() Config {
	cfg := Config{
		AuthTokens:         SplitCSV(ParseString("CLIPFETCH_AUTH_TOKENS", "")),
		Format:             ParseString("CLIPFETCH_FORMAT", DefaultFormat),
		CookiesFile:        ParseString("CLIPFETCH_COOKIES_FILE", ""),
		UserAgent:          ParseString("CLIPFETCH_USER_AGENT", ""),
		TwitterAPIOrder:    SplitCSV(ParseString("CLIPFETCH_TWITTER_API_ORDER", DefaultTwitterAPIOrder)),
		TwitterAPIFallback: ParseString("CLIPFETCH_TWITTER_API", "syndication"),
		FetchTimeout:       ParseDuration("CLIPFETCH_FETCH_TIMEOUT", 0),
	}

	cfg.YtDlpBin = ResolveBinary("yt-dlp", ParseString("CLIPFETCH_YTDLP_BIN", ""))
	cfg.FFmpegBin = ResolveBinary("ffmpeg", ParseString("CLIPFETCH_FFMPEG_BIN", ""))
	cfg.FFprobeBin = ResolveFFprobeBin(ParseString("CLIPFETCH_FFPROBE_BIN", ""), cfg.FFmpegBin)

	return cfg
}

// TwitterVariants returns the extractor API variants to attempt in order.
// An empty configured order falls back to the single fallback variant.
func (c Config) TwitterVariants() []string {
	if len(c.TwitterAPIOrder) > 0 {
		return c.TwitterAPIOrder
	}
	return []string{c.TwitterAPIFallback}
}

// ServerFromEnv builds the server configuration from the current environment.
func ServerFromEnv() ServerConfig {
	return ServerConfig{
		ListenAddr:      ParseString("CLIPFETCH_LISTEN", ":8080"),
		MetricsAddr:     ParseString("CLIPFETCH_METRICS_LISTEN", ""),
		LogLevel:        ParseString("LOG_LEVEL", "info"),
		RateLimitPerMin: ParseInt("CLIPFETCH_RATE_LIMIT", 10),
		ShutdownTimeout: ParseDuration("CLIPFETCH_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}
