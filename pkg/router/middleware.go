package router

// Middleware decorates a Resolver (metrics, tracing, logging).
type Middleware func(next Resolver) Resolver

// Wrap builds a resolver chain from middleware and a final resolver.
// Middleware is executed in order (first to last), with r at the end.
func Wrap(r Resolver, mw ...Middleware) Resolver {
	for i := len(mw) - 1; i >= 0; i-- {
		if mw[i] != nil {
			r = mw[i](r)
		}
	}
	return r
}

// Chain combines multiple middleware into one, preserving order.
func Chain(mw ...Middleware) Middleware {
	return func(next Resolver) Resolver {
		return Wrap(next, mw...)
	}
}
