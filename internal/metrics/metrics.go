// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics defines the Prometheus collectors for the download
// pipeline and its external tool invocations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DownloadsTotal counts download requests by terminal outcome
	// (success, auth, client_error, private, unavailable, processing, error).
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipfetch_downloads_total",
		Help: "Download requests by outcome",
	}, []string{"outcome"})

	// DownloadDuration tracks end-to-end download handling time.
	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clipfetch_download_duration_seconds",
		Help:    "End-to-end duration of download requests",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17min
	})

	// NormalizeTotal counts normalizer runs by mode (remux, reencode, passthrough).
	NormalizeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipfetch_normalize_total",
		Help: "Normalizer runs by processing mode",
	}, []string{"mode"})

	// FetchAttempts counts extractor attempts by API variant and result.
	FetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipfetch_fetch_attempts_total",
		Help: "Extractor attempts by strategy variant and result",
	}, []string{"variant", "result"})

	// ProcessInvocations counts external process spawns by binary.
	ProcessInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipfetch_process_invocations_total",
		Help: "External process invocations by binary",
	}, []string{"bin"})

	// ProcessFailures counts external process failures by binary and kind
	// (spawn, exit, timeout, wait).
	ProcessFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clipfetch_process_failures_total",
		Help: "External process failures by binary and kind",
	}, []string{"bin", "kind"})

	// ProcessDuration tracks wall time of completed external processes.
	ProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clipfetch_process_duration_seconds",
		Help:    "Duration of completed external process invocations",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms to ~7min
	}, []string{"bin"})
)
