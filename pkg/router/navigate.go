package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Page is a navigation whose views have been loaded and applied.
type Page struct {
	// ID identifies the navigation in logs.
	ID string

	// Route is the resolved route.
	Route *ResolvedRoute

	// Views holds the loaded slot views of each matched route, aligned with
	// Route.Matched.
	Views []map[string]View
}

// View returns the loaded view bound to slot on the terminal route.
func (p *Page) View(slot string) (View, bool) {
	if p == nil || len(p.Views) == 0 {
		return nil, false
	}
	v, ok := p.Views[len(p.Views)-1][slot]
	return v, ok
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithOnDisplay sets the callback that receives every applied page.
// It runs while the navigator is locked and must not call Navigate.
func WithOnDisplay(fn func(*Page)) NavigatorOption {
	return func(n *Navigator) {
		n.onDisplay = fn
	}
}

// WithNavigatorLogger sets the navigator's logger.
func WithNavigatorLogger(logger *slog.Logger) NavigatorOption {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Navigator resolves paths and loads their views. When navigations overlap,
// only the most recent one is applied: an older navigation's load is
// cancelled and its result discarded with ErrSuperseded.
type Navigator struct {
	resolver  Resolver
	logger    *slog.Logger
	onDisplay func(*Page)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc

	current atomic.Pointer[Page]
}

// NewNavigator creates a navigator over a resolver.
func NewNavigator(resolver Resolver, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		resolver: resolver,
		logger:   slog.Default().With("component", "navigator"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Navigate resolves path, loads the slot views of every matched route and
// applies the page. Routes outside the matched chain are never loaded.
//
// A resolution error (e.g. ErrNotFound) is returned without changing the
// current page.
func (n *Navigator) Navigate(ctx context.Context, path string) (*Page, error) {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	if n.cancel != nil {
		n.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.mu.Unlock()
	defer cancel()

	id := uuid.NewString()
	logger := n.logger.With("navigation_id", id, "path", path)

	route, err := n.resolver.Resolve(ctx, path)
	if err == nil {
		var views []map[string]View
		views, err = loadViews(ctx, route)
		if err == nil {
			return n.apply(seq, &Page{ID: id, Route: route, Views: views}, logger)
		}
	}

	if n.stale(seq) {
		logger.Debug("navigation superseded", "error", err)
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, path)
	}
	logger.Warn("navigation failed", "error", err)
	return nil, err
}

// apply installs page if seq is still the latest navigation.
func (n *Navigator) apply(seq uint64, page *Page, logger *slog.Logger) (*Page, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if seq != n.seq {
		logger.Debug("discarding superseded navigation", "route", page.Route.Name())
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, page.Route.Path)
	}

	n.current.Store(page)
	if n.onDisplay != nil {
		n.onDisplay(page)
	}
	logger.Debug("navigation applied", "route", page.Route.Name(), "resolved", page.Route.Path)
	return page, nil
}

func (n *Navigator) stale(seq uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return seq != n.seq
}

// Current returns the last applied page, or nil.
func (n *Navigator) Current() *Page {
	return n.current.Load()
}

// loadViews loads every slot of every matched route concurrently.
func loadViews(ctx context.Context, route *ResolvedRoute) ([]map[string]View, error) {
	views := make([]map[string]View, len(route.Matched))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, node := range route.Matched {
		views[i] = make(map[string]View, len(node.slots))
		for slot, ref := range node.slots {
			g.Go(func() error {
				v, err := ref.Load(gctx)
				if err != nil {
					return fmt.Errorf("loading slot %q of %s: %w", slot, node.pattern, err)
				}
				mu.Lock()
				views[i][slot] = v
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
