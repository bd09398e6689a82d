package router

import (
	"context"
)

// DefaultSlot is the slot a single Declaration.Component is bound to.
const DefaultSlot = "main"

// View is a renderable view produced by a ViewLoader. The router never
// inspects it.
type View any

// ViewLoader produces a view. It is only invoked when a route using it is
// navigated to.
type ViewLoader func(ctx context.Context) (View, error)

// ViewRef is a reference to a view stored in a route slot.
type ViewRef interface {
	// Load returns the referenced view, loading it if needed.
	Load(ctx context.Context) (View, error)
}

// Slots maps slot names (e.g. "main", "lnb") to view references.
type Slots map[string]ViewRef

// Meta holds arbitrary route metadata. It is passed through unchanged.
type Meta map[string]any

// Well-known metadata keys.
const (
	MetaLabel      = "label"
	MetaBreadcrumb = "breadcrumb"
)

// Label returns the "label" entry, or "" if absent or not a string.
func (m Meta) Label() string {
	s, _ := m[MetaLabel].(string)
	return s
}

// Breadcrumb reports whether the route is flagged for breadcrumb display.
func (m Meta) Breadcrumb() bool {
	b, _ := m[MetaBreadcrumb].(bool)
	return b
}

// Declaration is a static route declaration, the input to Build.
type Declaration struct {
	// Path is the route path: "/" (index of the parent), relative ("x", "./x")
	// or absolute ("/x").
	Path string

	// Name identifies the route for Lookup and URL. Empty means anonymous.
	Name string

	// Redirect is the path to resolve instead of this route.
	Redirect string

	// Meta is opaque metadata (label, breadcrumb, ...).
	Meta Meta

	// Component is bound to DefaultSlot.
	Component ViewRef

	// Components binds named slots.
	Components Slots

	// Children are nested routes, matched in order.
	Children []Declaration
}

// Node is a route in a built Tree. Nodes are immutable.
type Node struct {
	path     string
	pattern  string
	segments []string
	name     string
	redirect string
	meta     Meta
	slots    Slots
	index    bool
	depth    int

	// absolute is set when the pattern does not extend the parent's.
	absolute bool

	parent   *Node
	children []*Node

	// ordered is children in matching order for the tree's MatchMode.
	ordered []*Node
}

// Path returns the path as declared.
func (n *Node) Path() string { return n.path }

// Pattern returns the full pattern from the tree root (e.g. "/secret/credentials-group/:id/add").
func (n *Node) Pattern() string { return n.pattern }

// Name returns the route name; "" for anonymous routes.
func (n *Node) Name() string { return n.name }

// Redirect returns the redirect target, or "".
func (n *Node) Redirect() string { return n.redirect }

// Meta returns the route metadata.
func (n *Node) Meta() Meta { return n.meta }

// Slots returns the route's slot bindings.
func (n *Node) Slots() Slots { return n.slots }

// IsIndex reports whether the node was declared with the "/" root marker.
func (n *Node) IsIndex() bool { return n.index }

// Parent returns the parent node, or nil for top-level routes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in declaration order.
func (n *Node) Children() []*Node { return n.children }

// Depth returns the nesting depth; top-level routes have depth 0.
func (n *Node) Depth() int { return n.depth }

// Crumb is one breadcrumb entry.
type Crumb struct {
	Name  string
	Label string
	Path  string
}

// ResolvedRoute is the result of resolving a path.
type ResolvedRoute struct {
	// Path is the canonical path that was finally matched.
	Path string

	// Query is the query string of the request, without "?".
	Query string

	// RedirectedFrom lists the paths that redirected, in order.
	RedirectedFrom []string

	// Node is the terminal matched route.
	Node *Node

	// Matched is the chain of matched routes from the top level to Node.
	Matched []*Node

	// Slots are Node's slot bindings.
	Slots Slots

	// Params are the captured parameter values.
	Params map[string]string

	// Breadcrumbs are the matched routes flagged with breadcrumb metadata.
	Breadcrumbs []Crumb
}

// Name returns the terminal route's name.
func (r *ResolvedRoute) Name() string {
	if r == nil || r.Node == nil {
		return ""
	}
	return r.Node.name
}
