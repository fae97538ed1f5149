package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Component renders a route from its decoded arguments.
type Component[T any] func(args T) element.Component

// Handler is a route with its argument type erased. *Route[T] implements it.
type Handler interface {
	// Name is the unique route name, used by navigate requests.
	Name() string

	// Title is the page title.
	Title() string

	// Pattern is the parsed path pattern.
	Pattern() *routepath.Pattern

	// Fields are the argument descriptors, nil for routes without arguments.
	Fields() []args.Field

	// Render decodes the snapshot of c and renders the component.
	Render(c *Ctx) (element.Component, error)

	// TargetOf encodes untyped arguments into a navigation target.
	TargetOf(vals map[string]any) (args.Target, error)

	// Middleware returns the route's own middleware.
	Middleware() []Middleware
}

// Trigger is what caused a render.
type Trigger uint8

const (
	// TriggerRequest is a full HTTP page request.
	TriggerRequest Trigger = iota
	// TriggerLocation is a location change reported by a live client.
	TriggerLocation
	// TriggerNavigate is a server-side push or replace.
	TriggerNavigate
)

func (t Trigger) String() string {
	switch t {
	case TriggerRequest:
		return "request"
	case TriggerLocation:
		return "location"
	case TriggerNavigate:
		return "navigate"
	default:
		return fmt.Sprintf("Trigger(%d)", t)
	}
}

// Ctx is the context of one render, passed through the middleware chain.
type Ctx struct {
	ctx      context.Context
	route    Handler
	snapshot args.Snapshot
	trigger  Trigger
	logger   *slog.Logger
	values   map[string]any
	args     any
}

// NewCtx creates a render context. A nil logger means slog.Default().
func NewCtx(ctx context.Context, route Handler, snap args.Snapshot, trigger Trigger, logger *slog.Logger) *Ctx {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ctx{
		ctx:      ctx,
		route:    route,
		snapshot: snap,
		trigger:  trigger,
		logger:   logger,
	}
}

// Context returns the standard context of the render.
func (c *Ctx) Context() context.Context { return c.ctx }

// SetContext replaces the standard context, e.g. to carry a tracing span.
func (c *Ctx) SetContext(ctx context.Context) { c.ctx = ctx }

// Route returns the route being rendered.
func (c *Ctx) Route() Handler { return c.route }

// Snapshot returns the location being decoded.
func (c *Ctx) Snapshot() args.Snapshot { return c.snapshot }

// Trigger returns what caused the render.
func (c *Ctx) Trigger() Trigger { return c.trigger }

// Logger returns a logger annotated with the route.
func (c *Ctx) Logger() *slog.Logger {
	if c.route == nil {
		return c.logger
	}
	return c.logger.With("route", c.route.Name())
}

// Args returns the decoded arguments once the route has rendered.
func (c *Ctx) Args() any { return c.args }

// Set stores a request-scoped value.
func (c *Ctx) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Get returns a request-scoped value.
func (c *Ctx) Get(key string) any {
	return c.values[key]
}

// Middleware processes renders before they reach the route.
type Middleware interface {
	// Handle processes the render and optionally calls next.
	// Return an error to stop the chain and report an error.
	// Return nil without calling next to stop the chain without error.
	Handle(ctx *Ctx, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx *Ctx, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx *Ctx, next func() error) error {
	return f(ctx, next)
}
