package http

import (
	"regexp"
	"strings"
)

// originPattern matches a leading "scheme://host[:port]"
var originPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^/?#]*`)

// SplitOrigin splits rawURL into its absolute origin prefix (empty for
// relative URLs) and the remaining path template
func SplitOrigin(rawURL string) (origin, rest string) {
	loc := originPattern.FindStringIndex(rawURL)
	if loc == nil {
		return "", rawURL
	}
	return rawURL[:loc[1]], rawURL[loc[1]:]
}

// IsAbsolute reports whether rawURL carries a scheme and host
func IsAbsolute(rawURL string) bool {
	origin, _ := SplitOrigin(rawURL)
	return origin != ""
}

// Join combines a base URL with a request URL. Absolute request URLs are
// returned unchanged; otherwise exactly one slash separates the two.
func Join(base, rawURL string) string {
	if base == "" || IsAbsolute(rawURL) {
		return rawURL
	}
	if rawURL == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rawURL, "/")
}

// AppendQuery appends an already encoded query string, respecting an
// existing "?" and dropping any fragment
func AppendQuery(rawURL, query string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL = rawURL[:i]
	}
	if query == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + query
	}
	return rawURL + "?" + query
}
