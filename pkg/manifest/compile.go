package manifest

import (
	"fmt"
	"html"
	"math"
	"slices"

	"github.com/goccy/go-json"
	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

// formats are the value formats an argument may declare. The empty format
// accepts any value of the kind.
var formats = map[string]args.ValidateFunc{
	"":     nil,
	"int":  args.Int(),
	"uuid": args.UUID(),
	"json": args.JSON[any](),
}

// Compile builds the routes of the manifest. Routes render their decoded
// arguments.
func (m *Manifest) Compile() ([]*router.Route[args.Values], error) {
	out := make([]*router.Route[args.Values], 0, len(m.Routes))
	for _, spec := range m.Routes {
		r, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Handlers compiles the manifest into table routes.
func (m *Manifest) Handlers() ([]router.Handler, error) {
	routes, err := m.Compile()
	if err != nil {
		return nil, err
	}
	hs := make([]router.Handler, len(routes))
	for i, r := range routes {
		hs[i] = r
	}
	return hs, nil
}

// Fields returns the argument fields of the route.
func (r RouteSpec) Fields() ([]args.Field, error) {
	fields := make([]args.Field, 0, len(r.Args))
	for _, a := range r.Args {
		f, err := a.Field()
		if err != nil {
			return nil, fmt.Errorf("%w: route %q: %v", ErrInvalidManifest, r.Name, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Compile builds the route.
func (r RouteSpec) Compile() (*router.Route[args.Values], error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	var schema *args.Schema[args.Values]
	if len(fields) > 0 {
		schema, err = args.NewSchema[args.Values](fields...)
		if err != nil {
			return nil, fmt.Errorf("%w: route %q: %v", ErrInvalidManifest, r.Name, err)
		}
	}
	title := r.Title
	if title == "" {
		title = r.Name
	}
	route, err := router.New(router.Config[args.Values]{
		Path:  r.Path,
		Name:  r.Name,
		Title: title,
		Args:  schema,
		Component: func(v args.Values) element.Component {
			return valuesView{title: title, names: r.argNames(), values: v}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return route, nil
}

func (r RouteSpec) argNames() []string {
	names := make([]string, len(r.Args))
	for i, a := range r.Args {
		names[i] = a.Name
	}
	return names
}

// Field builds the argument field with its generated validator.
func (a ArgSpec) Field() (args.Field, error) {
	source, err := args.ParseSource(a.Source)
	if err != nil {
		return args.Field{}, fmt.Errorf("argument %q: %w", a.Name, err)
	}
	kind, err := args.ParseKind(a.Kind)
	if err != nil {
		return args.Field{}, fmt.Errorf("argument %q: %w", a.Name, err)
	}
	format, ok := formats[a.Format]
	if !ok {
		return args.Field{}, fmt.Errorf("argument %q: unknown format %q", a.Name, a.Format)
	}
	return args.Field{
		Name:     a.Name,
		Source:   source,
		Kind:     kind,
		Validate: a.validator(kind, format),
	}, nil
}

// validator yields the default for absent values, rejects absent required
// values and checks present values against the kind, the format and the
// enum.
func (a ArgSpec) validator(kind args.Kind, format args.ValidateFunc) args.ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok || v == nil {
			switch {
			case a.Default != nil:
				return a.Default, nil
			case a.Required:
				return nil, args.ErrRequired
			}
			return nil, nil
		}
		if f, isFloat := v.(float64); isFloat && kind == args.Number && math.IsNaN(f) {
			return nil, fmt.Errorf("%q is not a number", a.Name)
		}
		if kind == args.Boolean {
			if _, isBool := v.(bool); !isBool {
				return nil, fmt.Errorf("expected a boolean, got %v", v)
			}
		}
		if format != nil {
			out, err := format(v, true)
			if err != nil {
				return nil, err
			}
			v = out
		}
		if len(a.Enum) > 0 && !slices.ContainsFunc(a.Enum, func(e any) bool { return sameValue(e, v) }) {
			return nil, fmt.Errorf("%v is not one of %v", v, a.Enum)
		}
		return v, nil
	}
}

// sameValue compares an enum entry from YAML with a decoded value. Numbers
// compare by value whatever their Go type.
func sameValue(enum, v any) bool {
	if fe, ok := toFloat(enum); ok {
		fv, ok := toFloat(v)
		return ok && fe == fv
	}
	return fmt.Sprint(enum) == fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// valuesView renders the decoded arguments of a manifest route.
type valuesView struct {
	title  string
	names  []string
	values args.Values
}

func (v valuesView) Render(b *element.Builder) any {
	b.DivClass("route-args").R(
		b.H1().T(html.EscapeString(v.title)),
		v.renderArgs(b),
	)
	return nil
}

func (v valuesView) renderArgs(b *element.Builder) any {
	for _, name := range v.names {
		b.P("data-arg", name).T(html.EscapeString(name + ": " + formatValue(v.values[name])))
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
