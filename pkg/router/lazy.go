package router

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LazyView is a memoized ViewRef. The loader runs on first Load; concurrent
// first loads share a single call. A failed load is not cached, so the next
// navigation retries it.
type LazyView struct {
	loader ViewLoader

	mu     sync.Mutex
	view   View
	loaded bool

	group singleflight.Group
}

// Lazy wraps a loader in a memoized view reference.
func Lazy(loader ViewLoader) *LazyView {
	return &LazyView{loader: loader}
}

// Static returns a view reference to an already available view.
func Static(v View) *LazyView {
	return &LazyView{view: v, loaded: true}
}

// Load returns the view, invoking the loader if it has not succeeded yet.
//
// The shared load is detached from the caller's cancellation; a caller whose
// context ends stops waiting and gets the context error.
func (l *LazyView) Load(ctx context.Context) (View, error) {
	l.mu.Lock()
	if l.loaded {
		v := l.view
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	if l.loader == nil {
		return nil, fmt.Errorf("router: view has no loader")
	}

	ch := l.group.DoChan("", func() (any, error) {
		l.mu.Lock()
		if l.loaded {
			v := l.view
			l.mu.Unlock()
			return v, nil
		}
		l.mu.Unlock()

		v, err := l.loader(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.view = v
		l.loaded = true
		l.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// Loaded reports whether the view has been loaded.
func (l *LazyView) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// ViewRegistry maps view names to lazily loaded views. It is used to turn
// view names in declaration files into slot references.
type ViewRegistry struct {
	mu    sync.RWMutex
	views map[string]*LazyView
}

// NewViewRegistry creates an empty registry.
func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{views: make(map[string]*LazyView)}
}

// Register binds a view name to a loader. Registering a name twice replaces it.
func (r *ViewRegistry) Register(name string, loader ViewLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = Lazy(loader)
}

// Ref returns the memoized reference for a view name. Every call for the same
// name returns the same reference, so a view shared by several routes loads once.
func (r *ViewRegistry) Ref(name string) (*LazyView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[name]
	return v, ok
}

// Names returns the registered view names, sorted.
func (r *ViewRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
