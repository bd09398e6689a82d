package router

import (
	"fmt"

	"github.com/vango-dev/console/pkg/routepath"
)

// Lookup returns the route with the given name. Anonymous routes cannot be
// looked up.
func (t *Tree) Lookup(name string) (*Node, bool) {
	if name == "" {
		return nil, false
	}
	n, ok := t.byName[name]
	return n, ok
}

// URL builds the concrete path of a named route.
//
// Example:
//
//	tree.URL("addCredentials", map[string]string{"id": "42"})
//	// "/secret/credentials-group/42/add"
func (t *Tree) URL(name string, params map[string]string) (string, error) {
	n, ok := t.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: no route named %q", ErrNotFound, name)
	}
	return routepath.Fill(n.pattern, params)
}

// Walk visits every route depth-first in declaration order. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if fn(n) {
				walk(n.children)
			}
		}
	}
	walk(t.root.children)
}
