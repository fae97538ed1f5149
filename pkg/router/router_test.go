package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
)

type fileArgs struct {
	Path string `arg:"path"`
}

func fileRoute() *Route[fileArgs] {
	return Must(Config[fileArgs]{
		Path: "/files/*path",
		Name: "files",
		Args: args.MustSchema[fileArgs](args.Path("path", args.String, args.Default(""))),
		Component: func(a fileArgs) element.Component {
			return text("file " + a.Path)
		},
	})
}

type numArgs struct {
	N int `arg:"n"`
}

func numRoute() *Route[numArgs] {
	return Must(Config[numArgs]{
		Path: "/n/:n",
		Name: "num",
		Args: args.MustSchema[numArgs](args.Path("n", args.Number, args.Int())),
		Component: func(a numArgs) element.Component {
			return text("number")
		},
	})
}

func TestNewErrors(t *testing.T) {
	comp := func(userArgs) element.Component { return text("") }
	tests := []struct {
		name string
		cfg  Config[userArgs]
	}{
		{"no component", Config[userArgs]{Path: "/users/:id", Args: userSchema}},
		{"bad pattern", Config[userArgs]{Path: "users", Args: userSchema, Component: comp}},
		{"param without argument", Config[userArgs]{Path: "/users/:uid", Args: userSchema, Component: comp}},
		{"params without schema", Config[userArgs]{Path: "/users/:id", Component: comp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, ErrInvalidRoute) {
				t.Errorf("New() error = %v, want ErrInvalidRoute", err)
			}
		})
	}

	if _, err := Boring(BoringConfig{Path: "/x/:id", Component: func() element.Component { return text("") }}); !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("Boring(with param) error = %v", err)
	}
	if _, err := Lazy(LazyConfig[userArgs]{Path: "/users/:id", Args: userSchema}); !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("Lazy(no loader) error = %v", err)
	}
}

func TestRouteDefaults(t *testing.T) {
	r := Must(Config[userArgs]{Path: "/users/:id", Args: userSchema, Component: func(userArgs) element.Component { return text("") }})
	if r.Name() != "/users/:id" || r.Title() != "/users/:id" || r.Path() != "/users/:id" {
		t.Errorf("defaults: name %q title %q path %q", r.Name(), r.Title(), r.Path())
	}
	if r.Schema() != userSchema || len(r.Fields()) != 3 {
		t.Error("schema not kept")
	}
}

func TestTableResolve(t *testing.T) {
	table, err := NewTable(homeRoute(), userRoute(), fileRoute())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"/", "home"},
		{"/users/42", "user"},
		{"/users/a%20b", "user"},
		{"/files/a/b/c.txt", "files"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			h, err := table.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.path, err)
			}
			if h.Name() != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.path, h.Name(), tt.want)
			}
		})
	}

	if _, err := table.Resolve("/teams/1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(/teams/1) error = %v, want ErrNotFound", err)
	}
	if h, ok := table.Lookup("files"); !ok || h.Pattern().String() != "/files/*path" {
		t.Errorf("Lookup(files) = %v, %v", h, ok)
	}
	if len(table.Routes()) != 3 {
		t.Errorf("Routes() = %d", len(table.Routes()))
	}
}

func TestTableDuplicates(t *testing.T) {
	if _, err := NewTable(userRoute(), userRoute()); !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("duplicate name error = %v", err)
	}
	other := Must(Config[userArgs]{Path: "/users/:id", Name: "other", Args: userSchema, Component: func(userArgs) element.Component { return text("") }})
	if _, err := NewTable(userRoute(), other); !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("duplicate pattern error = %v", err)
	}
}

func TestTableSnapshot(t *testing.T) {
	table, err := NewTable(userRoute(), fileRoute())
	if err != nil {
		t.Fatal(err)
	}
	state := map[string]any{"from": "list"}
	h, snap, err := table.Snapshot("/users/a%20b/?tab=x#sec%201", state)
	if err != nil {
		t.Fatal(err)
	}
	if h.Name() != "user" {
		t.Errorf("route = %s", h.Name())
	}
	if snap.Params["id"] != "a b" || snap.Query != "tab=x" || snap.Hash != "sec%201" || snap.State["from"] != "list" {
		t.Errorf("snapshot = %+v", snap)
	}

	_, snap, err = table.Snapshot("/files/docs/a%20b.txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Params["path"] != "docs/a b.txt" {
		t.Errorf("catch-all = %q", snap.Params["path"])
	}

	if _, _, err := table.Snapshot("/../x", nil); err == nil {
		t.Error("Snapshot(/../x) succeeded")
	}
}

func TestTableRender(t *testing.T) {
	table, err := NewTable(userRoute())
	if err != nil {
		t.Fatal(err)
	}
	h, snap, err := table.Snapshot("/users/7?tab=posts", map[string]any{"from": "home"})
	if err != nil {
		t.Fatal(err)
	}

	var seen any
	table.Use(MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		err := next()
		seen = ctx.Args()
		return err
	}))

	comp, err := table.Render(context.Background(), h, snap, TriggerLocation)
	if err != nil {
		t.Fatal(err)
	}
	if out := HTML(comp); !strings.Contains(out, "user 7 tab posts") {
		t.Errorf("Render() = %q", out)
	}
	if got, ok := seen.(userArgs); !ok || got.From != "home" {
		t.Errorf("Ctx.Args() = %#v", seen)
	}

	page, err := table.RenderPage(context.Background(), h, snap, TriggerRequest)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<html", "User", "user 7 tab posts"} {
		if !strings.Contains(page, want) {
			t.Errorf("RenderPage() missing %q: %s", want, page)
		}
	}
}

func TestTableRenderStoppedByMiddleware(t *testing.T) {
	table, err := NewTable(homeRoute())
	if err != nil {
		t.Fatal(err)
	}
	table.Use(MiddlewareFunc(func(ctx *Ctx, next func() error) error { return nil }))
	h, _ := table.Lookup("home")
	if _, err := table.Render(context.Background(), h, args.Snapshot{}, TriggerRequest); err == nil {
		t.Error("Render() succeeded without reaching the route")
	}
}

func TestRouteMiddlewareRunsAfterTable(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
			order = append(order, name)
			return next()
		})
	}
	r := Must(Config[userArgs]{
		Path:       "/users/:id",
		Args:       userSchema,
		Component:  func(a userArgs) element.Component { return userView{a} },
		Middleware: []Middleware{mark("route")},
	})
	table, err := NewTable(r)
	if err != nil {
		t.Fatal(err)
	}
	table.Use(mark("table"))

	h, snap, err := table.Snapshot("/users/1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Render(context.Background(), h, snap, TriggerRequest); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "table,route" {
		t.Errorf("order = %v", order)
	}
}

func TestLazyRoute(t *testing.T) {
	var loads atomic.Int32
	r, err := Lazy(LazyConfig[userArgs]{
		Path: "/users/:id",
		Args: userSchema,
		Load: func() (Component[userArgs], error) {
			loads.Add(1)
			return func(a userArgs) element.Component { return userView{a} }, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if loads.Load() != 0 {
		t.Error("loader ran before the first render")
	}

	snap := args.Snapshot{Params: map[string]string{"id": "1"}}
	for i := 0; i < 3; i++ {
		if _, err := r.Render(NewCtx(context.Background(), r, snap, TriggerRequest, nil)); err != nil {
			t.Fatal(err)
		}
	}
	if loads.Load() != 1 {
		t.Errorf("loads = %d, want 1", loads.Load())
	}

	failing, err := Lazy(LazyConfig[userArgs]{
		Path: "/users/:id",
		Args: userSchema,
		Load: func() (Component[userArgs], error) { return nil, errors.New("chunk missing") },
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		_, err := failing.Render(NewCtx(context.Background(), failing, snap, TriggerRequest, nil))
		if !errors.Is(err, ErrComponentLoad) {
			t.Errorf("Render() error = %v, want ErrComponentLoad", err)
		}
	}
}

func TestMountServesRoutes(t *testing.T) {
	r := chi.NewRouter()
	if _, err := Mount(r, homeRoute(), userRoute(), numRoute()); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(r)
	defer srv.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "home page"},
		{"/users/42?tab=posts", http.StatusOK, "user 42 tab posts"},
		{"/users/42", http.StatusOK, "user 42 tab overview"},
		{"/n/12", http.StatusOK, "number"},
		{"/n/abc", http.StatusBadRequest, "E101"},
		{"/n/1.5", http.StatusBadRequest, "E101"},
		{"/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body := new(strings.Builder)
			if _, err := io.Copy(body, resp.Body); err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", body.String(), tt.wantBody)
			}
		})
	}
}

func TestStatusOf(t *testing.T) {
	_, decodeErr := userSchema.Decode(args.Snapshot{})
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{decodeErr, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrComponentLoad, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
