// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package auth implements bearer-token request authentication.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// ExtractToken retrieves the API token from the Authorization header. A
// "Bearer " prefix is stripped when present; a bare token is accepted as-is.
func ExtractToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

// AuthorizeToken returns true if got matches any accepted token using
// constant-time comparison. An empty got token is always unauthorized.
func AuthorizeToken(got string, accepted []string) bool {
	if got == "" {
		return false
	}
	ok := false
	for _, want := range accepted {
		if want == "" {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1 {
			ok = true
		}
	}
	return ok
}
