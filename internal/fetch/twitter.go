// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fetch

import (
	"net/url"
	"strings"
)

// twitterHosts are the aliases that get the extractor API variant fallback
// sequence instead of a single attempt.
var twitterHosts = map[string]bool{
	"twitter.com":        true,
	"x.com":              true,
	"mobile.twitter.com": true,
	"mobile.x.com":       true,
}

// IsTwitterURL reports whether the URL belongs to Twitter/X. A leading
// "www." is ignored; unparseable URLs are not special.
func IsTwitterURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return twitterHosts[host]
}
