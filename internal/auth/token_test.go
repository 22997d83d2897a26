// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractToken_BearerPrefix(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example.local/download", nil)
	r.Header.Set("Authorization", "Bearer secret-token ")

	if got := ExtractToken(r); got != "secret-token" {
		t.Fatalf("ExtractToken() = %q, want %q", got, "secret-token")
	}
}

func TestExtractToken_BareToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example.local/download", nil)
	r.Header.Set("Authorization", "secret-token")

	if got := ExtractToken(r); got != "secret-token" {
		t.Fatalf("ExtractToken() = %q, want bare token accepted", got)
	}
}

func TestExtractToken_NoHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example.local/download", nil)
	if got := ExtractToken(r); got != "" {
		t.Fatalf("ExtractToken() = %q, want empty", got)
	}
}

func TestAuthorizeToken(t *testing.T) {
	accepted := []string{"alpha", "beta"}

	if !AuthorizeToken("alpha", accepted) {
		t.Fatal("AuthorizeToken should accept first token")
	}
	if !AuthorizeToken("beta", accepted) {
		t.Fatal("AuthorizeToken should accept second token")
	}
	if AuthorizeToken("gamma", accepted) {
		t.Fatal("AuthorizeToken should reject unknown token")
	}
	if AuthorizeToken("", accepted) {
		t.Fatal("AuthorizeToken should reject empty got token")
	}
	if AuthorizeToken("alpha", nil) {
		t.Fatal("AuthorizeToken should reject with no accepted tokens")
	}
	if AuthorizeToken("", []string{""}) {
		t.Fatal("AuthorizeToken should never match empty against empty")
	}
}
