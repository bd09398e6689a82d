package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/vango-dev/console/pkg/routepath"
)

// Resolve maps a path to its route.
//
// The path is canonicalized first; paths that cannot be canonicalized do not
// match anything. When the matched route redirects, resolution restarts at the
// redirect target. A redirect chain that revisits a path or grows longer than
// the tree's redirect bound fails with ErrRedirectLoop.
//
// Resolve does not load any view.
func (t *Tree) Resolve(ctx context.Context, path string) (*ResolvedRoute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNotFound, path, err)
	}

	current := canon.Path
	query := canon.Query
	var redirectedFrom []string
	visited := map[string]bool{}

	for {
		if visited[current] {
			return nil, fmt.Errorf("%w: %s revisits %s", ErrRedirectLoop, strings.Join(redirectedFrom, " -> "), current)
		}
		visited[current] = true

		chain, params, ok := t.match(routepath.Split(current))
		if !ok {
			if len(redirectedFrom) > 0 {
				return nil, fmt.Errorf("%w: %s (redirected from %s)", ErrNotFound, current, redirectedFrom[0])
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, current)
		}

		node := chain[len(chain)-1]
		if node.redirect == "" {
			return &ResolvedRoute{
				Path:           current,
				Query:          query,
				RedirectedFrom: redirectedFrom,
				Node:           node,
				Matched:        chain,
				Slots:          node.slots,
				Params:         params,
				Breadcrumbs:    breadcrumbs(chain, params),
			}, nil
		}

		if len(redirectedFrom) >= t.maxRedirects {
			return nil, fmt.Errorf("%w: more than %d redirects starting at %s", ErrRedirectLoop, t.maxRedirects, redirectedFrom[0])
		}

		target, targetQuery, err := redirectTarget(node, params)
		if err != nil {
			return nil, fmt.Errorf("%w: redirect from %s: %w", ErrNotFound, current, err)
		}

		t.logger.Debug("following redirect", "from", current, "to", target, "route", node.name)

		redirectedFrom = append(redirectedFrom, current)
		current = target
		if query == "" {
			query = targetQuery
		}
	}
}

// redirectTarget computes the canonical path a redirecting node points to.
// Relative targets are resolved against the node's parent; ":param"
// placeholders are filled from the parameters captured so far.
func redirectTarget(n *Node, params map[string]string) (string, string, error) {
	target, query := routepath.SplitPathAndQuery(n.redirect)
	if !strings.HasPrefix(target, "/") {
		base := "/"
		if n.parent != nil {
			base = n.parent.pattern
		}
		target = base + "/" + target
	}

	filled, err := routepath.Fill(target, params)
	if err != nil {
		return "", "", err
	}

	canon, err := routepath.CanonicalizePath(filled)
	if err != nil {
		return "", "", err
	}
	return canon.Path, query, nil
}

// breadcrumbs collects the matched routes flagged for breadcrumb display.
func breadcrumbs(chain []*Node, params map[string]string) []Crumb {
	var crumbs []Crumb
	for _, n := range chain {
		if !n.meta.Breadcrumb() {
			continue
		}
		path, err := routepath.Fill(n.pattern, params)
		if err != nil {
			path = n.pattern
		}
		crumbs = append(crumbs, Crumb{
			Name:  n.name,
			Label: n.meta.Label(),
			Path:  path,
		})
	}
	return crumbs
}
