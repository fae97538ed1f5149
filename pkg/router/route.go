package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Route errors.
var (
	ErrInvalidRoute  = errors.New("invalid route")
	ErrNotFound      = errors.New("route not found")
	ErrComponentLoad = errors.New("component failed to load")
)

// Config declares a route with arguments.
type Config[T any] struct {
	// Path is the pattern, e.g. "/users/:id".
	Path string

	// Name identifies the route in navigate requests. Defaults to Path.
	Name string

	// Title is the page title. Defaults to Name.
	Title string

	// Args is the argument schema. Its path arguments must match the
	// parameters of Path.
	Args *args.Schema[T]

	Component  Component[T]
	Middleware []Middleware
}

// LazyConfig declares a route whose component is loaded on first render.
type LazyConfig[T any] struct {
	Path       string
	Name       string
	Title      string
	Args       *args.Schema[T]
	Load       func() (Component[T], error)
	Middleware []Middleware
}

// BoringConfig declares a route without arguments.
type BoringConfig struct {
	Path       string
	Name       string
	Title      string
	Component  func() element.Component
	Middleware []Middleware
}

// Route binds a path pattern, an argument schema and a component. A Route is
// immutable once built and safe for concurrent use.
type Route[T any] struct {
	name       string
	title      string
	pattern    *routepath.Pattern
	schema     *args.Schema[T]
	middleware []Middleware

	load    func() (Component[T], error)
	once    sync.Once
	comp    Component[T]
	loadErr error
}

// New builds a route.
func New[T any](cfg Config[T]) (*Route[T], error) {
	if cfg.Component == nil {
		return nil, fmt.Errorf("%w %q: no component", ErrInvalidRoute, cfg.Path)
	}
	comp := cfg.Component
	return newRoute(cfg.Path, cfg.Name, cfg.Title, cfg.Args, cfg.Middleware, func() (Component[T], error) {
		return comp, nil
	})
}

// Must is like New but panics on error.
func Must[T any](cfg Config[T]) *Route[T] {
	r, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

// Lazy builds a route whose component is resolved by cfg.Load on the first
// render. A load error fails that render and every later one.
func Lazy[T any](cfg LazyConfig[T]) (*Route[T], error) {
	if cfg.Load == nil {
		return nil, fmt.Errorf("%w %q: no loader", ErrInvalidRoute, cfg.Path)
	}
	return newRoute(cfg.Path, cfg.Name, cfg.Title, cfg.Args, cfg.Middleware, cfg.Load)
}

// Boring builds a route without arguments. Its actions ignore their input
// and always yield the static path.
func Boring(cfg BoringConfig) (*Route[any], error) {
	if cfg.Component == nil {
		return nil, fmt.Errorf("%w %q: no component", ErrInvalidRoute, cfg.Path)
	}
	render := cfg.Component
	return newRoute[any](cfg.Path, cfg.Name, cfg.Title, nil, cfg.Middleware, func() (Component[any], error) {
		return func(any) element.Component { return render() }, nil
	})
}

func newRoute[T any](path, name, title string, schema *args.Schema[T], mw []Middleware, load func() (Component[T], error)) (*Route[T], error) {
	p, err := routepath.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}
	if schema == nil {
		if !p.IsStatic() {
			return nil, fmt.Errorf("%w %q: parameters need an argument schema", ErrInvalidRoute, path)
		}
	} else if err := schema.CheckPattern(p); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRoute, path, err)
	}
	if name == "" {
		name = path
	}
	if title == "" {
		title = name
	}
	return &Route[T]{
		name:       name,
		title:      title,
		pattern:    p,
		schema:     schema,
		middleware: mw,
		load:       load,
	}, nil
}

// Name returns the route name.
func (r *Route[T]) Name() string { return r.name }

// Title returns the page title.
func (r *Route[T]) Title() string { return r.title }

// Pattern returns the parsed path pattern.
func (r *Route[T]) Pattern() *routepath.Pattern { return r.pattern }

// Path returns the pattern as declared.
func (r *Route[T]) Path() string { return r.pattern.String() }

// Schema returns the argument schema, nil for routes without arguments.
func (r *Route[T]) Schema() *args.Schema[T] { return r.schema }

// Middleware returns the route's own middleware.
func (r *Route[T]) Middleware() []Middleware { return r.middleware }

// Fields returns the argument descriptors.
func (r *Route[T]) Fields() []args.Field {
	if r.schema == nil {
		return nil
	}
	return r.schema.Fields()
}

// Decode reads the route arguments from a snapshot. Routes without a schema
// return the zero T and never look at the snapshot.
func (r *Route[T]) Decode(snap args.Snapshot) (T, error) {
	if r.schema == nil {
		var zero T
		return zero, nil
	}
	return r.schema.Decode(snap)
}

// Target encodes v into a navigation target.
func (r *Route[T]) Target(v T) (args.Target, error) {
	if r.schema == nil {
		return args.Target{Path: r.pattern.String()}, nil
	}
	return r.schema.EncodePattern(r.pattern, v)
}

// TargetOf validates untyped values against the schema and encodes the ones
// given. Defaults of absent arguments are not written into the URL.
func (r *Route[T]) TargetOf(vals map[string]any) (args.Target, error) {
	if r.schema == nil {
		return args.Target{Path: r.pattern.String()}, nil
	}
	return r.schema.EncodeValues(r.pattern, vals)
}

// Component returns the route component, loading it if needed.
func (r *Route[T]) Component() (Component[T], error) {
	r.once.Do(func() {
		r.comp, r.loadErr = r.load()
		if r.loadErr == nil && r.comp == nil {
			r.loadErr = errors.New("loader returned no component")
		}
		if r.loadErr != nil {
			r.loadErr = fmt.Errorf("%w: %s: %v", ErrComponentLoad, r.name, r.loadErr)
		}
	})
	return r.comp, r.loadErr
}

// Render decodes the snapshot of c and invokes the component with the result.
func (r *Route[T]) Render(c *Ctx) (element.Component, error) {
	v, err := r.Decode(c.Snapshot())
	if err != nil {
		return nil, err
	}
	c.args = v
	comp, err := r.Component()
	if err != nil {
		return nil, err
	}
	return comp(v), nil
}

// Actions binds the route to a navigation handle.
func (r *Route[T]) Actions(h History) Actions[T] {
	return Actions[T]{route: r, history: h}
}
