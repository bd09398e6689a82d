package middleware

import (
	"context"
	"errors"

	"github.com/vango-dev/console/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the console router.
const defaultTracerName = "console/router"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "console/router").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// Filter determines which paths to trace.
	// Return true to trace the resolution, false to skip.
	// If nil, all resolutions are traced.
	Filter func(path string) bool

	// AttributeExtractor adds custom attributes from the resolved route.
	// It is not called when resolution fails.
	AttributeExtractor func(route *router.ResolvedRoute) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithPathFilter sets a filter function for paths.
func WithPathFilter(filter func(path string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(route *router.ResolvedRoute) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// OpenTelemetry creates middleware that traces every route resolution.
//
// Each span carries the requested path and, on success, the resolved path,
// route name and redirect count. Errors are recorded on the span; a
// not-found resolution is recorded but does not mark the span as failed.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given.
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(next router.Resolver) router.Resolver {
		return router.ResolverFunc(func(ctx context.Context, path string) (*router.ResolvedRoute, error) {
			if config.Filter != nil && !config.Filter(path) {
				return next.Resolve(ctx, path)
			}

			ctx, span := tracer.Start(ctx, "router.resolve",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("router.path", path)),
			)
			defer span.End()

			route, err := next.Resolve(ctx, path)
			span.SetAttributes(attribute.String("router.status", Status(err)))

			if err != nil {
				span.RecordError(err)
				if !errors.Is(err, router.ErrNotFound) {
					span.SetStatus(codes.Error, err.Error())
				}
				return route, err
			}

			span.SetAttributes(
				attribute.String("router.resolved_path", route.Path),
				attribute.String("router.route", route.Name()),
				attribute.Int("router.redirects", len(route.RedirectedFrom)),
			)
			if config.AttributeExtractor != nil {
				span.SetAttributes(config.AttributeExtractor(route)...)
			}
			span.SetStatus(codes.Ok, "")
			return route, nil
		})
	}
}

// SpanFromContext returns the span of the enclosing resolution, if any.
// Useful inside view loaders and inner middleware.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
