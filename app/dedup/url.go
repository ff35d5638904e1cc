package dedup

import (
	"net/url"
	"strings"
)

// NormalizeURL reduces a link to a comparison key: lowercased, www. and
// trailing slash stripped, query (including utm_*/ref/source tracking
// parameters) and fragment dropped, keeping scheme, host and path only.
// The result is idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
//
// Unparseable input is returned lowercased and trimmed, so exact-match
// comparisons still behave sensibly.
func NormalizeURL(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ""
	}

	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return normalized
	}

	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimSuffix(u.Path, "/")

	return u.Scheme + "://" + host + path
}
