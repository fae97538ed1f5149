package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Shell wraps a rendered route into a full HTML page.
type Shell func(title string, body element.Component) element.Component

// Table is the set of mounted routes. It resolves hrefs to routes through a
// chi matcher and renders them through the middleware chain.
type Table struct {
	matcher    *chi.Mux
	routes     []Handler
	byName     map[string]Handler
	byPattern  map[string]Handler
	middleware []Middleware
	shell      Shell
	logger     *slog.Logger
}

// NewTable builds a table. Route names and chi patterns must be unique.
func NewTable(routes ...Handler) (*Table, error) {
	t := &Table{
		matcher:   chi.NewMux(),
		byName:    make(map[string]Handler, len(routes)),
		byPattern: make(map[string]Handler, len(routes)),
		shell:     DefaultShell,
		logger:    slog.Default().With("component", "router"),
	}
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, h := range routes {
		if _, dup := t.byName[h.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate route name %q", ErrInvalidRoute, h.Name())
		}
		chiPattern := h.Pattern().ToChi()
		if prev, dup := t.byPattern[chiPattern]; dup {
			return nil, fmt.Errorf("%w: %s and %s match the same paths", ErrInvalidRoute, prev.Pattern(), h.Pattern())
		}
		t.byName[h.Name()] = h
		t.byPattern[chiPattern] = h
		t.routes = append(t.routes, h)
		t.matcher.Get(chiPattern, noop)
	}
	return t, nil
}

// Mount builds a table and registers a GET handler for every route on r.
func Mount(r chi.Router, routes ...Handler) (*Table, error) {
	t, err := NewTable(routes...)
	if err != nil {
		return nil, err
	}
	t.Register(r)
	return t, nil
}

// Register adds a GET handler for every route of t to r.
func (t *Table) Register(r chi.Router) {
	for _, h := range t.routes {
		r.Get(h.Pattern().ToChi(), t.HandlerFor(h))
	}
}

// Use appends table-wide middleware. It runs before route middleware.
func (t *Table) Use(mw ...Middleware) {
	t.middleware = append(t.middleware, mw...)
}

// SetShell replaces the page shell used for full page renders.
func (t *Table) SetShell(s Shell) {
	if s != nil {
		t.shell = s
	}
}

// SetLogger replaces the table logger.
func (t *Table) SetLogger(l *slog.Logger) {
	if l != nil {
		t.logger = l
	}
}

// Logger returns the table logger.
func (t *Table) Logger() *slog.Logger { return t.logger }

// Routes returns the routes in registration order.
func (t *Table) Routes() []Handler {
	out := make([]Handler, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (Handler, bool) {
	h, ok := t.byName[name]
	return h, ok
}

// Resolve finds the route matching an escaped path.
func (t *Table) Resolve(path string) (Handler, error) {
	rctx := chi.NewRouteContext()
	if !t.matcher.Match(rctx, http.MethodGet, path) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	h, ok := t.byPattern[rctx.RoutePattern()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return h, nil
}

// Snapshot resolves an href and builds the snapshot a render of it decodes.
// The fragment is kept escaped; hash arguments decode it.
func (t *Table) Snapshot(href string, state map[string]any) (Handler, args.Snapshot, error) {
	loc, _, err := routepath.CanonicalizePath(href)
	if err != nil {
		return nil, args.Snapshot{}, err
	}
	h, err := t.Resolve(loc.Path)
	if err != nil {
		return nil, args.Snapshot{}, err
	}
	params, err := h.Pattern().Extract(loc.Path)
	if err != nil {
		return nil, args.Snapshot{}, err
	}
	return h, args.Snapshot{
		Params: params,
		Query:  loc.Query,
		Hash:   loc.Fragment,
		State:  state,
	}, nil
}

// Render runs the middleware chain and the route for one snapshot and
// returns the rendered component.
func (t *Table) Render(ctx context.Context, h Handler, snap args.Snapshot, trigger Trigger) (element.Component, error) {
	c := NewCtx(ctx, h, snap, trigger, t.logger)
	mw := make([]Middleware, 0, len(t.middleware)+len(h.Middleware()))
	mw = append(mw, t.middleware...)
	mw = append(mw, h.Middleware()...)

	var out element.Component
	err := ComposeMiddleware(c, mw, func() error {
		comp, err := h.Render(c)
		if err != nil {
			return err
		}
		out = comp
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("route %s: render stopped by middleware", h.Name())
	}
	return out, nil
}

// RenderPage renders a route inside the table's shell.
func (t *Table) RenderPage(ctx context.Context, h Handler, snap args.Snapshot, trigger Trigger) (string, error) {
	body, err := t.Render(ctx, h, snap, trigger)
	if err != nil {
		return "", err
	}
	return HTML(t.shell(h.Title(), body)), nil
}

// HandlerFor returns the HTTP handler rendering h. Requests carry no hash
// and no navigation state; the live session supplies those later.
func (t *Table) HandlerFor(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := args.Snapshot{Query: r.URL.RawQuery}
		params, err := h.Pattern().Extract(r.URL.EscapedPath())
		if err != nil {
			t.writeError(w, http.StatusNotFound, h, err)
			return
		}
		snap.Params = params

		page, err := t.RenderPage(r.Context(), h, snap, TriggerRequest)
		if err != nil {
			t.writeError(w, StatusOf(err), h, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}
}

func (t *Table) writeError(w http.ResponseWriter, status int, h Handler, err error) {
	if status >= http.StatusInternalServerError {
		t.logger.Error("render failed", "route", h.Name(), "error", err)
	} else {
		t.logger.Warn("render rejected", "route", h.Name(), "status", status, "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(HTML(t.shell(http.StatusText(status), ErrorPage{Status: status, Err: err}))))
}

// StatusOf maps a render error to an HTTP status.
func StatusOf(err error) int {
	var fe *args.FieldError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &fe):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, routepath.ErrNoMatch):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
