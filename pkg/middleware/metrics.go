package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
	"github.com/vango-dev/typedroute/pkg/server"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "typedroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
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
		Namespace: "typedroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the route metrics. Create it once per registry.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	decodeFailures *prometheus.CounterVec
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
}

// NewMetrics registers the route metrics:
//   - typedroute_renders_total: renders by route, trigger and status
//   - typedroute_render_duration_seconds: render duration by route
//   - typedroute_decode_failures_total: argument failures by route and error code
//   - typedroute_active_sessions: live sessions
//   - typedroute_sessions_total: sessions started
//
// It panics if the metrics are already registered in the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of route renders",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "trigger", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Route render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		decodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "decode_failures_total",
			Help:        "Total number of route argument decode failures",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of live sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of live sessions started",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus registers route metrics and returns the middleware recording
// them.
//
// Example:
//
//	srv.Use(middleware.Prometheus(middleware.WithNamespace("myapp")))
//	srv.Mux().Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) router.Middleware {
	return NewMetrics(opts...).Middleware()
}

// Middleware returns the route middleware recording renders.
func (m *Metrics) Middleware() router.Middleware {
	return router.MiddlewareFunc(func(ctx *router.Ctx, next func() error) error {
		route := ctx.Route().Name()
		start := time.Now()

		err := next()

		m.renderDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
			var fe *args.FieldError
			if errors.As(err, &fe) {
				m.decodeFailures.WithLabelValues(route, fe.Code).Inc()
			}
		}
		m.rendersTotal.WithLabelValues(route, ctx.Trigger().String(), status).Inc()
		return err
	})
}

// SessionStarted records a new live session. Use it as
// ServerConfig.OnSessionStart.
func (m *Metrics) SessionStarted(*server.Session) {
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionEnded records a closed live session. Use it as
// ServerConfig.OnSessionEnd.
func (m *Metrics) SessionEnded(*server.Session) {
	m.activeSessions.Dec()
}
