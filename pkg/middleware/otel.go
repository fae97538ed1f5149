package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

const defaultTracerName = "typedroute"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "typedroute").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeQuery records the raw query string. It may contain sensitive
	// data, so it is disabled by default.
	IncludeQuery bool

	// Filter determines which renders to trace. If nil, all are traced.
	Filter func(ctx *router.Ctx) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ctx *router.Ctx) []attribute.KeyValue
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

// WithIncludeQuery enables recording the raw query string.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithRenderFilter sets a filter function for renders.
func WithRenderFilter(filter func(ctx *router.Ctx) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *router.Ctx) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every route render.
//
// The span is named after the route pattern and carries the route name,
// the trigger and, on failure, the argument that failed. The span context
// replaces the render context so components and later middleware can
// start child spans.
//
// The tracer comes from the global provider unless WithTracerProvider is
// given:
//
//	otel.SetTracerProvider(tp)
//	srv.Use(middleware.OpenTelemetry(middleware.WithTracerName("my-app")))
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return router.MiddlewareFunc(func(ctx *router.Ctx, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		route := ctx.Route()
		attrs := []attribute.KeyValue{
			attribute.String("route.name", route.Name()),
			attribute.String("route.pattern", route.Pattern().String()),
			attribute.String("route.trigger", ctx.Trigger().String()),
		}
		if config.IncludeQuery {
			attrs = append(attrs, attribute.String("route.query", ctx.Snapshot().Query))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := tracer.Start(
			ctx.Context(),
			"route "+route.Pattern().String(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		ctx.SetContext(spanCtx)

		err := next()

		if err != nil {
			var fe *args.FieldError
			if errors.As(err, &fe) {
				span.SetAttributes(
					attribute.String("route.arg", fe.Field),
					attribute.String("route.error_code", fe.Code),
				)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

// SpanFromContext returns the span of the current render, or a no-op span
// outside a traced render.
func SpanFromContext(ctx *router.Ctx) trace.Span {
	return trace.SpanFromContext(ctx.Context())
}

// TraceContext returns the render context for propagation to downstream
// calls.
func TraceContext(ctx *router.Ctx) context.Context {
	return ctx.Context()
}
