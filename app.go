package typedroute

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	rterrors "github.com/vango-dev/typedroute/internal/errors"
	"github.com/vango-dev/typedroute/pkg/manifest"
	"github.com/vango-dev/typedroute/pkg/middleware"
	"github.com/vango-dev/typedroute/pkg/router"
	"github.com/vango-dev/typedroute/pkg/server"
)

// App wires a configuration into a running server: routes, render
// middleware, the metrics endpoint and HTTP middleware.
//
//	cfg, err := typedroute.LoadConfig(".")
//	app, err := typedroute.New(cfg)
//	app.Run()
type App struct {
	config   *Config
	server   *server.Server
	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures an App.
type Option func(*options)

type options struct {
	routes         []router.Handler
	middleware     []router.Middleware
	logger         *slog.Logger
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
}

// WithRoutes mounts the given routes instead of the manifest routes.
func WithRoutes(routes ...router.Handler) Option {
	return func(o *options) {
		o.routes = append(o.routes, routes...)
	}
}

// WithMiddleware appends render middleware after tracing and metrics.
func WithMiddleware(mw ...router.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithLogger sets the base logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with and
// served from. Default: a new registry with Go and process collectors.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithTracerProvider sets the tracer provider. Default: the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// New creates an App. Without WithRoutes the routes are compiled from the
// manifest named by the configuration.
func New(cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	routes := o.routes
	if len(routes) == 0 {
		hs, err := LoadManifest(cfg.ManifestPath())
		if err != nil {
			return nil, err
		}
		routes = hs
	}

	sc := ServerConfig(cfg)
	sc.Logger = logger
	sc.HTTPMiddleware = []func(http.Handler) http.Handler{
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
	}

	app := &App{config: cfg, logger: logger}
	if cfg.Metrics.Enabled {
		reg := o.registry
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		app.gatherer = reg
		app.metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		sc.OnSessionStart = app.metrics.SessionStarted
		sc.OnSessionEnd = app.metrics.SessionEnded
	}

	srv, err := server.New(sc, routes...)
	if err != nil {
		return nil, err
	}
	if cfg.Tracing.Enabled {
		tp := o.tracerProvider
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		srv.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithTracerProvider(tp),
		))
	}
	if app.metrics != nil {
		srv.Use(app.metrics.Middleware())
		srv.Mux().Handle(cfg.Metrics.Path, promhttp.HandlerFor(app.gatherer, promhttp.HandlerOpts{}))
	}
	srv.Use(o.middleware...)

	app.server = srv
	return app, nil
}

// LoadManifest compiles the route manifest at path.
func LoadManifest(path string) ([]router.Handler, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, rterrors.New("E161").
			WithSuggestion("Set manifest in typedroute.yaml or pass routes with WithRoutes").
			Wrap(err)
	}
	hs, err := m.Handlers()
	if err != nil {
		return nil, rterrors.New("E161").Wrap(err)
	}
	return hs, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.server.ServeHTTP(w, r)
}

// Run serves until SIGINT or SIGTERM.
func (a *App) Run() error {
	return a.server.Run()
}

// Shutdown closes all sessions and stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Server returns the underlying server.
func (a *App) Server() *server.Server { return a.server }

// Table returns the route table.
func (a *App) Table() *router.Table { return a.server.Table() }

// Config returns the configuration the app was built from.
func (a *App) Config() *Config { return a.config }

// Metrics returns the route metrics, or nil when metrics are disabled.
func (a *App) Metrics() *middleware.Metrics { return a.metrics }

// Logger returns the base logger.
func (a *App) Logger() *slog.Logger { return a.logger }
