package http

import (
	"testing"
)

func TestSplitOrigin(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		origin string
		rest   string
	}{
		{name: "absolute with port", input: "https://example.com:8080/api/:id", origin: "https://example.com:8080", rest: "/api/:id"},
		{name: "absolute no path", input: "http://localhost", origin: "http://localhost", rest: ""},
		{name: "relative", input: "/users/:id", origin: "", rest: "/users/:id"},
		{name: "relative no slash", input: "users", origin: "", rest: "users"},
		{name: "query after host", input: "http://h?x=1", origin: "http://h", rest: "?x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, rest := SplitOrigin(tt.input)
			if origin != tt.origin {
				t.Errorf("origin = %q, want %q", origin, tt.origin)
			}
			if rest != tt.rest {
				t.Errorf("rest = %q, want %q", rest, tt.rest)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		url      string
		expected string
	}{
		{name: "base and path", base: "http://api.test/v1/", url: "/users", expected: "http://api.test/v1/users"},
		{name: "no slashes", base: "http://api.test/v1", url: "users", expected: "http://api.test/v1/users"},
		{name: "absolute url wins", base: "http://api.test", url: "https://other.test/x", expected: "https://other.test/x"},
		{name: "empty base", base: "", url: "/users", expected: "/users"},
		{name: "root base", base: "/", url: "/users", expected: "/users"},
		{name: "empty url", base: "http://api.test", url: "", expected: "http://api.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.base, tt.url); got != tt.expected {
				t.Errorf("Join() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppendQuery(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		query    string
		expected string
	}{
		{name: "empty query", url: "/a", query: "", expected: "/a"},
		{name: "new query", url: "/a", query: "x=1", expected: "/a?x=1"},
		{name: "existing query", url: "/a?y=2", query: "x=1", expected: "/a?y=2&x=1"},
		{name: "fragment dropped", url: "/a#top", query: "x=1", expected: "/a?x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AppendQuery(tt.url, tt.query); got != tt.expected {
				t.Errorf("AppendQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func BenchmarkSplitOrigin(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = SplitOrigin("https://example.com:8080/api/v1/users/:id")
	}
}
