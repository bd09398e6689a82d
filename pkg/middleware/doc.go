// Package middleware provides observability decorators for route resolvers.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both are router.Middleware values and compose with router.Wrap:
//
//	resolver := router.Wrap(tree,
//	    middleware.OpenTelemetry(middleware.WithTracerName("console")),
//	    middleware.Prometheus(middleware.WithNamespace("console")),
//	)
//	nav := router.NewNavigator(resolver)
//
// # OpenTelemetry Middleware
//
// One span is started per resolution. The span context is passed down to the
// wrapped resolver, so inner middleware and resolvers can attach attributes
// with SpanFromContext.
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - console_router_resolves_total{status}: resolutions by outcome
//   - console_router_redirects_total: redirects followed
//   - console_router_resolve_duration_seconds: resolution latency
//
// Expose them with promhttp in the host application.
package middleware
