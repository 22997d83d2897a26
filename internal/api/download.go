// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/clipfetch/internal/log"
	"github.com/ManuGH/clipfetch/internal/metrics"
)

// downloadRequest is the POST /download body.
type downloadRequest struct {
	URL string `json:"url"`
}

// handleDownload runs one download job: allocate an isolated scratch
// directory, run the pipeline, stream the result, and remove the scratch
// directory exactly once on every exit path. On success the removal is
// deferred until the response body has been fully sent.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := configFromRequest(r)

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		metrics.DownloadsTotal.WithLabelValues("client_error").Inc()
		return
	}
	if !validHTTPURL(req.URL) {
		writeDetail(w, http.StatusBadRequest, "url must be a valid http(s) URL")
		metrics.DownloadsTotal.WithLabelValues("client_error").Inc()
		return
	}

	jobID := uuid.New().String()
	ctx := log.ContextWithJobID(r.Context(), jobID)
	logger := log.WithComponentFromContext(ctx, "download")
	logger.Info().Str("url", req.URL).Msg("download request")

	scratchDir, err := os.MkdirTemp("", "clipfetch-")
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to allocate scratch directory")
		metrics.DownloadsTotal.WithLabelValues("error").Inc()
		return
	}

	// Exactly one removal per job, no matter which path exits first.
	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			if err := os.RemoveAll(scratchDir); err != nil {
				logger.Error().Err(err).Str("path", scratchDir).Msg("scratch cleanup failed")
				return
			}
			logger.Debug().Str("path", scratchDir).Msg("scratch directory removed")
		})
	}
	defer cleanup()

	videoPath, err := s.pipeline.Run(ctx, cfg, req.URL, scratchDir)
	if err != nil {
		cleanup()
		status, detail, outcome := classifyError(err)
		logger.Error().Err(err).Int("status", status).Msg("download failed")
		writeDetail(w, status, detail)
		metrics.DownloadsTotal.WithLabelValues(outcome).Inc()
		return
	}

	fi, err := os.Stat(videoPath)
	if err != nil {
		cleanup()
		writeDetail(w, http.StatusInternalServerError, "download completed but video file not found")
		metrics.DownloadsTotal.WithLabelValues("error").Inc()
		return
	}

	if err := s.streamFile(w, videoPath, fi.Size()); err != nil {
		// Headers are already out; nothing more to send. The deferred
		// cleanup still runs.
		logger.Warn().Err(err).Msg("response streaming aborted")
		metrics.DownloadsTotal.WithLabelValues("aborted").Inc()
		return
	}

	metrics.DownloadsTotal.WithLabelValues("success").Inc()
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	logger.Info().Dur("duration", time.Since(start)).Msg("download completed")
}

// streamFile sends the finished video as an attachment. A mid-stream error
// (client disconnect, broken connection) can only be logged by the caller.
func (s *Server) streamFile(w http.ResponseWriter, path string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, f)
	return err
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
