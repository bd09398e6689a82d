package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/console/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "console").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "console",
		Subsystem: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Resolve outcomes used as the "status" label.
const (
	StatusOK           = "ok"
	StatusNotFound     = "not_found"
	StatusRedirectLoop = "redirect_loop"
	StatusCanceled     = "canceled"
	StatusError        = "error"
)

type metrics struct {
	resolvesTotal   *prometheus.CounterVec
	redirectsTotal  prometheus.Counter
	resolveDuration prometheus.Histogram
}

// register registers c, returning the already registered collector when an
// identical one exists. This lets several trees share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func newMetrics(config MetricsConfig) *metrics {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := config.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	return &metrics{
		resolvesTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolves_total",
			Help:        "Total number of route resolutions by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"})),

		redirectsTotal: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "redirects_total",
			Help:        "Total number of redirects followed while resolving",
			ConstLabels: config.ConstLabels,
		})),

		resolveDuration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Route resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     buckets,
		})),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for route
// resolution.
//
// Metrics collected:
//   - console_router_resolves_total: Counter of resolutions by status
//   - console_router_redirects_total: Counter of redirects followed
//   - console_router_resolve_duration_seconds: Histogram of resolve duration
//
// Example:
//
//	resolver := router.Wrap(tree,
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	)
//
// Registering the same metrics twice on one registry reuses the existing
// collectors. Conflicting definitions panic, as with promauto.
func Prometheus(opts ...MetricsOption) router.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := newMetrics(config)

	return func(next router.Resolver) router.Resolver {
		return router.ResolverFunc(func(ctx context.Context, path string) (*router.ResolvedRoute, error) {
			start := time.Now()
			route, err := next.Resolve(ctx, path)
			m.resolveDuration.Observe(time.Since(start).Seconds())

			m.resolvesTotal.WithLabelValues(Status(err)).Inc()
			if route != nil && len(route.RedirectedFrom) > 0 {
				m.redirectsTotal.Add(float64(len(route.RedirectedFrom)))
			}
			return route, err
		})
	}
}

// Status maps a resolve error to a low-cardinality outcome label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, router.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, router.ErrRedirectLoop):
		return StatusRedirectLoop
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}
