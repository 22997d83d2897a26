// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"

	"github.com/ManuGH/clipfetch/internal/auth"
	"github.com/ManuGH/clipfetch/internal/log"
)

// authMiddleware enforces bearer-token authentication for the download
// surface. With no tokens configured every request is accepted (the startup
// warning covers that). Rejection happens before any resource allocation.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := configFromRequest(r)
		if len(cfg.AuthTokens) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		logger := log.WithComponentFromContext(r.Context(), "auth")

		token := auth.ExtractToken(r)
		if token == "" {
			logger.Warn().Str("event", "auth.missing_header").Msg("authorization header missing")
			writeDetail(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		if !auth.AuthorizeToken(token, cfg.AuthTokens) {
			logger.Warn().Str("event", "auth.invalid_token").Msg("invalid authentication token")
			writeDetail(w, http.StatusUnauthorized, "Invalid authentication token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
