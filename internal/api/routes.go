// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cflog "github.com/ManuGH/clipfetch/internal/log"
)

// Handler builds the router with the canonical middleware stack: recoverer,
// request ID, security headers, metrics, logging; rate limiting and auth
// apply to the download surface only.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(securityHeaders)
	r.Use(httpMetrics)
	r.Use(cflog.Middleware())

	r.Get("/health", s.health.ServeHealth)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)

	// Without a dedicated metrics listener, expose /metrics inline.
	if s.srvCfg.MetricsAddr == "" {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(withJobConfig)
		r.Use(s.authMiddleware)
		if s.srvCfg.RateLimitPerMin > 0 {
			r.Use(httprate.Limit(
				s.srvCfg.RateLimitPerMin,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeDetail(w, http.StatusTooManyRequests, "too many requests, try again later")
				}),
			))
		}
		r.Post("/download", s.handleDownload)
	})

	return r
}
