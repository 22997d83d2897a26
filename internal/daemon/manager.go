// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package daemon manages the process lifecycle: HTTP listeners, graceful
// shutdown on signal, and the optional dedicated metrics listener.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/clipfetch/internal/config"
)

// Deps carries the handlers and settings the manager serves.
type Deps struct {
	Logger         zerolog.Logger
	APIHandler     http.Handler
	MetricsHandler http.Handler // served on MetricsAddr when set
}

// Manager runs the configured servers until the context is cancelled, then
// shuts them down gracefully within the shutdown timeout.
type Manager struct {
	srvCfg config.ServerConfig
	deps   Deps
}

// NewManager creates a daemon manager.
func NewManager(srvCfg config.ServerConfig, deps Deps) (*Manager, error) {
	if deps.APIHandler == nil {
		return nil, fmt.Errorf("api handler is required")
	}
	return &Manager{srvCfg: srvCfg, deps: deps}, nil
}

// Run blocks until ctx is cancelled or a listener fails.
func (m *Manager) Run(ctx context.Context) error {
	logger := m.deps.Logger.With().Str("component", "daemon").Logger()

	apiServer := &http.Server{
		Addr:              m.srvCfg.ListenAddr,
		Handler:           m.deps.APIHandler,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: downloads legitimately stream for minutes.
	}

	var metricsServer *http.Server
	if m.srvCfg.MetricsAddr != "" && m.deps.MetricsHandler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.deps.MetricsHandler)
		metricsServer = &http.Server{
			Addr:              m.srvCfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", apiServer.Addr).Msg("api server listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			logger.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), m.srvCfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
