// Package routepath normalizes request paths and route patterns.
//
// Request paths go through CanonicalizePath before they reach the route
// tree. Route patterns declared relative to a parent are turned into full
// patterns with Join, and named routes are turned back into concrete paths
// with Fill.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// CanonicalizeResult is a request path split into its canonical path and
// its raw query.
type CanonicalizeResult struct {
	Path  string
	Query string

	// Changed reports whether Path differs from the input's path part.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// CanonicalizePath normalizes a request path as typed in the address bar or
// passed to a navigation:
//
//	"secret"                       → "/secret"
//	"/secret//credentials/"        → "/secret/credentials"
//	"/secret/./credentials/../x"   → "/secret/x"
//
// Paths containing a backslash, a NUL byte (raw or %00), a malformed percent
// escape or a ".." above the root are rejected. The query string is split off
// and returned untouched.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	path, query := SplitPathAndQuery(input)
	if err := scan(path); err != nil {
		return CanonicalizeResult{}, err
	}

	segs, err := resolveDots(strings.Split(path, "/"))
	if err != nil {
		return CanonicalizeResult{}, err
	}

	canonical := "/" + strings.Join(segs, "/")
	return CanonicalizeResult{
		Path:    canonical,
		Query:   query,
		Changed: canonical != path,
	}, nil
}

// scan rejects the characters a canonical path may never contain.
func scan(path string) error {
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '\\':
			return ErrBackslashInPath
		case 0:
			return ErrNullByteInPath
		case '%':
			if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			if path[i+1] == '0' && path[i+2] == '0' {
				return ErrNullByteInPath
			}
			i += 2
		}
	}
	return nil
}

// resolveDots drops empty and "." segments and applies ".." segments.
func resolveDots(segs []string) ([]string, error) {
	out := segs[:0]
	for _, seg := range segs {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return nil, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return out, nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// DecodeSegment unescapes a captured parameter value. Only catch-all values
// may contain "/": an escaped slash inside a single segment is rejected.
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	if !strings.Contains(segment, "%") {
		return segment, nil
	}
	decoded, err := url.PathUnescape(segment)
	switch {
	case err != nil:
		return "", ErrInvalidPercentEscape
	case !isCatchAll && strings.ContainsRune(decoded, '/'):
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// Split splits a canonical path or pattern into its segments.
// The root path yields no segments.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
