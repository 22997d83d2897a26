// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/clipfetch/internal/config"
	"github.com/ManuGH/clipfetch/internal/fetch"
	"github.com/ManuGH/clipfetch/internal/media"
)

// stubPipeline lets each test script the pipeline outcome and observe the
// scratch directory the handler allocated.
type stubPipeline struct {
	fn         func(scratchDir string) (string, error)
	scratchDir string
}

func (p *stubPipeline) Run(_ context.Context, _ config.Config, _ string, scratchDir string) (string, error) {
	p.scratchDir = scratchDir
	return p.fn(scratchDir)
}

func testServer(t *testing.T, p Pipeline) http.Handler {
	t.Helper()
	srvCfg := config.ServerConfig{ListenAddr: ":0", RateLimitPerMin: 0}
	return NewWithPipeline(srvCfg, "test", p).Handler()
}

func postDownload(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/download", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestDownload_Success(t *testing.T) {
	pipeline := &stubPipeline{fn: func(scratchDir string) (string, error) {
		path := filepath.Join(scratchDir, "clip.qt.mp4")
		return path, os.WriteFile(path, []byte("normalized-video"), 0o600)
	}}

	rec := postDownload(testServer(t, pipeline), `{"url":"https://example.com/v/1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "16", rec.Header().Get("Content-Length"))
	assert.Equal(t, `attachment; filename="clip.qt.mp4"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "normalized-video", rec.Body.String())

	// Scratch directory is gone once the response has been sent.
	_, err := os.Stat(pipeline.scratchDir)
	assert.True(t, os.IsNotExist(err), "scratch dir %s must be removed", pipeline.scratchDir)
}

func TestDownload_InvalidBody(t *testing.T) {
	pipeline := &stubPipeline{fn: func(string) (string, error) {
		t.Fatal("pipeline must not run for an invalid body")
		return "", nil
	}}

	rec := postDownload(testServer(t, pipeline), `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", detailOf(t, rec))
}

func TestDownload_InvalidURL(t *testing.T) {
	h := testServer(t, &stubPipeline{fn: func(string) (string, error) {
		t.Fatal("pipeline must not run for an invalid URL")
		return "", nil
	}})

	for _, body := range []string{
		`{"url":""}`,
		`{"url":"ftp://example.com/file"}`,
		`{"url":"not a url"}`,
		`{}`,
	} {
		rec := postDownload(h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Equal(t, "url must be a valid http(s) URL", detailOf(t, rec))
	}
}

func TestDownload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "private video",
			err:        &fetch.ExtractorError{Variant: "graphql", Message: "ERROR: Private video, use --cookies"},
			wantStatus: http.StatusForbidden,
			wantDetail: "Video is private or unavailable",
		},
		{
			name:       "video unavailable",
			err:        &fetch.ExtractorError{Message: "ERROR: Video unavailable"},
			wantStatus: http.StatusNotFound,
			wantDetail: "Video not found or unavailable",
		},
		{
			name:       "content not available",
			err:        &fetch.ExtractorError{Message: "ERROR: This content is not available in your region"},
			wantStatus: http.StatusNotFound,
			wantDetail: "Video not found or unavailable",
		},
		{
			name:       "generic extractor failure",
			err:        &fetch.ExtractorError{Message: "ERROR: Unsupported URL"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "Download error: ERROR: Unsupported URL",
		},
		{
			name:       "processing failure",
			err:        &media.ProcessingError{Reason: "video processing failed"},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Download failed: video processing failed",
		},
		{
			name:       "unexpected failure",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Download failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &stubPipeline{fn: func(string) (string, error) { return "", tt.err }}
			rec := postDownload(testServer(t, pipeline), `{"url":"https://example.com/v/1"}`)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail, detailOf(t, rec))

			_, err := os.Stat(pipeline.scratchDir)
			assert.True(t, os.IsNotExist(err), "scratch dir must be removed on failure")
		})
	}
}

func TestDownload_MissingOutputFile(t *testing.T) {
	pipeline := &stubPipeline{fn: func(scratchDir string) (string, error) {
		return filepath.Join(scratchDir, "never-written.mp4"), nil
	}}

	rec := postDownload(testServer(t, pipeline), `{"url":"https://example.com/v/1"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "download completed but video file not found", detailOf(t, rec))

	_, err := os.Stat(pipeline.scratchDir)
	assert.True(t, os.IsNotExist(err))
}

func TestDownload_DetailTruncated(t *testing.T) {
	long := bytes.Repeat([]byte("x"), 1000)
	pipeline := &stubPipeline{fn: func(string) (string, error) {
		return "", &fetch.ExtractorError{Message: "ERROR: " + string(long)}
	}}

	rec := postDownload(testServer(t, pipeline), `{"url":"https://example.com/v/1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.LessOrEqual(t, len(detailOf(t, rec)), maxDetailLen)
}

func TestValidHTTPURL(t *testing.T) {
	valid := []string{"https://example.com/v/1", "http://example.com"}
	invalid := []string{"", "ftp://example.com", "https://", "example.com/path", "://bad"}

	for _, u := range valid {
		assert.True(t, validHTTPURL(u), "url %q", u)
	}
	for _, u := range invalid {
		assert.False(t, validHTTPURL(u), "url %q", u)
	}
}
