// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ManuGH/clipfetch/internal/fetch"
	"github.com/ManuGH/clipfetch/internal/media"
)

// maxDetailLen bounds client-facing error messages.
const maxDetailLen = 200

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the error body shape used across the API.
func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": truncate(detail, maxDetailLen)})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// classifyError maps a pipeline failure onto an HTTP status, a bounded
// client-facing detail and a metrics outcome label. Extractor failures are
// inspected for the tool's known "private" and "unavailable" phrasings;
// everything after a successful download is a processing failure.
func classifyError(err error) (status int, detail, outcome string) {
	var extErr *fetch.ExtractorError
	if errors.As(err, &extErr) {
		msg := extErr.Message
		switch {
		case strings.Contains(msg, "Private video"):
			return http.StatusForbidden, "Video is private or unavailable", "private"
		case strings.Contains(msg, "Video unavailable"),
			strings.Contains(strings.ToLower(msg), "not available"):
			return http.StatusNotFound, "Video not found or unavailable", "unavailable"
		default:
			return http.StatusBadRequest, "Download error: " + msg, "client_error"
		}
	}

	var procErr *media.ProcessingError
	if errors.As(err, &procErr) {
		return http.StatusInternalServerError, "Download failed: " + procErr.Error(), "processing"
	}

	return http.StatusInternalServerError, "Download failed: " + err.Error(), "error"
}
