package router

import (
	"strings"

	"github.com/vango-dev/console/pkg/routepath"
)

// match finds the first route matching the given path segments.
// Returns the chain of matched nodes (top level first) and extracted parameters.
func (t *Tree) match(segments []string) ([]*Node, map[string]string, bool) {
	for _, child := range t.root.ordered {
		if chain, params, ok := child.match(segments); ok {
			return chain, params, true
		}
	}
	return nil, nil, false
}

// match tries n and then its subtree, depth-first in matching order.
//
// Children are tried before n itself, so that when the path ends exactly at
// n an index child ("/") becomes the terminal route and n stays an ancestor.
// Children declared with an absolute path do not extend n's pattern: they
// are tried even when n's own pattern does not match, and n still heads the
// chain so its slots compose around them.
func (n *Node) match(segments []string) ([]*Node, map[string]string, bool) {
	params, consumed, ok := matchPattern(n.segments, segments)

	for _, child := range n.ordered {
		if !ok && !child.absolute {
			continue
		}
		chain, childParams, matched := child.match(segments)
		if !matched {
			continue
		}
		if !child.absolute {
			for k, v := range params {
				if _, set := childParams[k]; !set {
					childParams[k] = v
				}
			}
		}
		return append([]*Node{n}, chain...), childParams, true
	}

	if ok && consumed == len(segments) {
		return []*Node{n}, params, true
	}
	return nil, nil, false
}

// matchPattern matches pattern segments against a prefix of the path.
// Returns the captured parameters and how many path segments were consumed.
func matchPattern(pattern, segments []string) (map[string]string, int, bool) {
	params := make(map[string]string)
	for i, p := range pattern {
		switch routepath.Kind(p) {
		case routepath.CatchAll:
			if i >= len(segments) {
				return nil, 0, false
			}
			value, err := routepath.DecodeSegment(strings.Join(segments[i:], "/"), true)
			if err != nil {
				return nil, 0, false
			}
			name, _ := routepath.ParseParam(p)
			params[name] = value
			return params, len(segments), true

		case routepath.Param:
			if i >= len(segments) {
				return nil, 0, false
			}
			value, err := routepath.DecodeSegment(segments[i], false)
			if err != nil {
				return nil, 0, false
			}
			name, paramType := routepath.ParseParam(p)
			if ValidateParam(value, paramType) != nil {
				return nil, 0, false
			}
			params[name] = value

		default:
			if i >= len(segments) {
				return nil, 0, false
			}
			value, err := routepath.DecodeSegment(segments[i], false)
			if err != nil || value != p {
				return nil, 0, false
			}
		}
	}
	return params, len(pattern), true
}
