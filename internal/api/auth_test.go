// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedDownload(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/download", bytes.NewBufferString(`{"url":"https://example.com/v/1"}`))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okPipeline() *stubPipeline {
	return &stubPipeline{fn: func(scratchDir string) (string, error) {
		path := filepath.Join(scratchDir, "clip.mp4")
		return path, os.WriteFile(path, []byte("video"), 0o600)
	}}
}

func TestAuth_NoTokensConfigured(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "")

	rec := authedDownload(testServer(t, okPipeline()), "")
	assert.Equal(t, http.StatusOK, rec.Code, "open instance must accept anonymous requests")
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	rec := authedDownload(testServer(t, okPipeline()), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing Authorization header", detailOf(t, rec))
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	rec := authedDownload(testServer(t, okPipeline()), "Bearer wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication token", detailOf(t, rec))
}

func TestAuth_ValidBearerToken(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	rec := authedDownload(testServer(t, okPipeline()), "Bearer secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_BareToken(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	rec := authedDownload(testServer(t, okPipeline()), "secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MultipleTokens(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "alpha,beta")

	h := testServer(t, okPipeline())
	assert.Equal(t, http.StatusOK, authedDownload(h, "Bearer beta").Code)
	assert.Equal(t, http.StatusUnauthorized, authedDownload(h, "Bearer gamma").Code)
}

func TestAuth_RejectionBeforePipeline(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	pipeline := &stubPipeline{fn: func(string) (string, error) {
		t.Fatal("pipeline must not run for an unauthorized request")
		return "", nil
	}}
	rec := authedDownload(testServer(t, pipeline), "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_HealthEndpointUnprotected(t *testing.T) {
	t.Setenv("CLIPFETCH_AUTH_TOKENS", "secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	testServer(t, okPipeline()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "health probe must not require auth")
}
