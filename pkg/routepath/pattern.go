package routepath

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingParam is returned by Fill when a pattern parameter has no value.
var ErrMissingParam = errors.New("missing route parameter")

// SegmentKind classifies a pattern segment.
type SegmentKind int

const (
	// Static matches one segment literally.
	Static SegmentKind = iota
	// Param matches exactly one segment (":id").
	Param
	// CatchAll matches the rest of the path ("*rest").
	CatchAll
)

// Kind returns the kind of a pattern segment.
func Kind(seg string) SegmentKind {
	switch {
	case strings.HasPrefix(seg, ":"):
		return Param
	case strings.HasPrefix(seg, "*"):
		return CatchAll
	default:
		return Static
	}
}

// ParseParam extracts name and type from a parameter segment.
// ":id" → ("id", "string"), ":id:int" → ("id", "int"), "*rest" → ("rest", "[]string").
func ParseParam(seg string) (name, paramType string) {
	if strings.HasPrefix(seg, "*") {
		return seg[1:], "[]string"
	}
	seg = strings.TrimPrefix(seg, ":")
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}

// IsIndex reports whether a declared child path is the root marker of its
// parent, i.e. the child matches the parent's own path.
func IsIndex(child string) bool {
	switch child {
	case "", "/", ".", "./":
		return true
	}
	return false
}

// Join turns a declared route path into a full pattern.
//
//   - the root marker ("/", "", ".") yields the parent pattern
//   - a path starting with "/" is absolute
//   - anything else ("x", "./x") is relative to the parent
//
// The result always starts with "/" and never ends with one (except root).
// ".." segments are rejected.
func Join(parent, child string) (string, error) {
	if IsIndex(child) {
		return clean(parent)
	}
	if strings.HasPrefix(child, "/") {
		return clean(child)
	}
	child = strings.TrimPrefix(child, "./")
	return clean(parent + "/" + child)
}

func clean(pattern string) (string, error) {
	var out []string
	for _, seg := range strings.Split(pattern, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q contains ..", ErrInvalidPath, pattern)
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

// Shape returns a pattern with parameter names erased, so that two patterns
// matching the same set of paths compare equal ("/x/:id" and "/x/:key" both
// become "/x/:").
func Shape(pattern string) string {
	segs := Split(pattern)
	for i, seg := range segs {
		switch Kind(seg) {
		case Param:
			_, typ := ParseParam(seg)
			segs[i] = ":" + typ
		case CatchAll:
			segs[i] = "*"
		}
	}
	return "/" + strings.Join(segs, "/")
}

// Fill substitutes params into a pattern and returns a concrete path.
// Values are path-escaped; catch-all values keep their "/" separators.
func Fill(pattern string, params map[string]string) (string, error) {
	segs := Split(pattern)
	for i, seg := range segs {
		kind := Kind(seg)
		if kind == Static {
			continue
		}
		name, _ := ParseParam(seg)
		value, ok := params[name]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %q in %s", ErrMissingParam, name, pattern)
		}
		if kind == CatchAll {
			parts := strings.Split(value, "/")
			for j, p := range parts {
				parts[j] = url.PathEscape(p)
			}
			segs[i] = strings.Join(parts, "/")
			continue
		}
		segs[i] = url.PathEscape(value)
	}
	return "/" + strings.Join(segs, "/"), nil
}
