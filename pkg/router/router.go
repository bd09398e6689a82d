package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/console/pkg/routepath"
)

// DefaultMaxRedirects bounds redirect chains.
const DefaultMaxRedirects = 10

// MatchMode controls the order in which sibling routes are tried.
type MatchMode string

const (
	// MatchPreferStatic tries siblings whose first segment is literal before
	// parameter siblings, and those before catch-all siblings. Declaration
	// order breaks ties within each group.
	MatchPreferStatic MatchMode = "prefer_static"

	// MatchDeclarationOrder tries siblings strictly in declaration order.
	MatchDeclarationOrder MatchMode = "declaration_order"
)

func (m MatchMode) normalize() MatchMode {
	switch m {
	case MatchDeclarationOrder:
		return MatchDeclarationOrder
	default:
		return MatchPreferStatic
	}
}

func (m MatchMode) String() string {
	return string(m.normalize())
}

// ParseMatchMode parses a match mode name. The empty string selects the default.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchPreferStatic:
		return MatchPreferStatic, nil
	case MatchDeclarationOrder:
		return MatchDeclarationOrder, nil
	}
	return "", fmt.Errorf("unknown match mode %q", s)
}

// Resolver resolves paths to routes.
type Resolver interface {
	Resolve(ctx context.Context, path string) (*ResolvedRoute, error)
}

// ResolverFunc is a function adapter for Resolver.
type ResolverFunc func(ctx context.Context, path string) (*ResolvedRoute, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, path string) (*ResolvedRoute, error) {
	return f(ctx, path)
}

// Tree is an immutable route tree built from declarations.
// It is safe for concurrent use.
type Tree struct {
	root         *Node
	byName       map[string]*Node
	count        int
	maxRedirects int
	mode         MatchMode
	logger       *slog.Logger
}

// Option configures Build.
type Option func(*Tree)

// WithMaxRedirects sets the longest redirect chain Resolve follows.
func WithMaxRedirects(n int) Option {
	return func(t *Tree) {
		if n > 0 {
			t.maxRedirects = n
		}
	}
}

// WithMatchMode sets the sibling matching order.
func WithMatchMode(m MatchMode) Option {
	return func(t *Tree) {
		t.mode = m.normalize()
	}
}

// WithLogger sets the tree's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Build constructs an immutable route tree.
//
// All declarations are validated before the tree is returned; any duplicate
// sibling path, duplicate name or malformed path rejects the whole tree with
// a *MultiValidationError. No view is loaded.
func Build(decls []Declaration, opts ...Option) (*Tree, error) {
	t := &Tree{
		root:         &Node{pattern: "/", depth: -1},
		byName:       make(map[string]*Node),
		maxRedirects: DefaultMaxRedirects,
		mode:         MatchPreferStatic,
		logger:       slog.Default().With("component", "router"),
	}
	for _, opt := range opts {
		opt(t)
	}

	v := newValidator()
	t.root.children = t.insert(t.root, decls, v)
	t.order(t.root)

	if err := v.err(); err != nil {
		return nil, err
	}

	t.logger.Debug("route tree built",
		"routes", t.count,
		"named", len(t.byName),
		"match_mode", t.mode.String(),
		"max_redirects", t.maxRedirects)

	return t, nil
}

// insert creates nodes for decls under parent.
func (t *Tree) insert(parent *Node, decls []Declaration, v *validator) []*Node {
	nodes := make([]*Node, 0, len(decls))
	for _, d := range decls {
		pattern, err := routepath.Join(parent.pattern, d.Path)
		if err != nil {
			v.add(ValidationError{
				Type:    ErrorInvalidPattern,
				Message: fmt.Sprintf("%q under %s: %v", d.Path, parent.pattern, err),
				Path:    parent.pattern,
				Name:    d.Name,
			})
			continue
		}
		if !v.checkPattern(d.Path, pattern, d.Name) {
			continue
		}

		n := &Node{
			path:     d.Path,
			pattern:  pattern,
			segments: routepath.Split(pattern),
			name:     d.Name,
			redirect: d.Redirect,
			meta:     d.Meta,
			slots:    bindSlots(d),
			index:    routepath.IsIndex(d.Path),
			depth:    parent.depth + 1,
		}
		if parent != t.root {
			n.parent = parent
			n.absolute = !hasPrefix(n.segments, parent.segments)
		}
		if n.meta == nil {
			n.meta = Meta{}
		}

		v.checkName(n.name, n.pattern)
		if n.name != "" {
			if _, exists := t.byName[n.name]; !exists {
				t.byName[n.name] = n
			}
		}
		t.count++

		n.children = t.insert(n, d.Children, v)
		nodes = append(nodes, n)
	}
	v.checkSiblings(nodes)
	return nodes
}

// bindSlots merges Component and Components into one slot map.
func bindSlots(d Declaration) Slots {
	if d.Component == nil && len(d.Components) == 0 {
		return nil
	}
	slots := make(Slots, len(d.Components)+1)
	for name, ref := range d.Components {
		if ref != nil {
			slots[name] = ref
		}
	}
	if d.Component != nil {
		if _, ok := slots[DefaultSlot]; !ok {
			slots[DefaultSlot] = d.Component
		}
	}
	return slots
}

// order computes the matching order of every node's children.
func (t *Tree) order(n *Node) {
	n.ordered = n.children
	if t.mode == MatchPreferStatic && len(n.children) > 1 {
		n.ordered = make([]*Node, 0, len(n.children))
		for _, kind := range []routepath.SegmentKind{routepath.Static, routepath.Param, routepath.CatchAll} {
			for _, c := range n.children {
				if leadingKind(n, c) == kind {
					n.ordered = append(n.ordered, c)
				}
			}
		}
	}
	for _, c := range n.children {
		t.order(c)
	}
}

// leadingKind returns the kind of the first segment the child adds to its
// parent's pattern. Index children add none and count as static.
func leadingKind(parent, child *Node) routepath.SegmentKind {
	own := child.segments
	if hasPrefix(child.segments, parent.segments) {
		own = child.segments[len(parent.segments):]
	}
	if len(own) == 0 {
		return routepath.Static
	}
	return routepath.Kind(own[0])
}

func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Len returns the number of routes in the tree.
func (t *Tree) Len() int { return t.count }

// Routes returns the top-level routes.
func (t *Tree) Routes() []*Node { return t.root.children }

// MatchMode returns the tree's sibling matching order.
func (t *Tree) MatchMode() MatchMode { return t.mode }

// MaxRedirects returns the redirect chain bound.
func (t *Tree) MaxRedirects() int { return t.maxRedirects }
