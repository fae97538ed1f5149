package args

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Schema is the ordered set of argument descriptors of a route, bound to the
// argument type T. A Schema is immutable and safe for concurrent use.
type Schema[T any] struct {
	fields  []Field
	binding binding
}

// NewSchema builds a schema for T. It fails when a field has no validator,
// uses a (source, kind) pair the codec does not support, is declared twice,
// or does not exist on T, and when T has a field no descriptor covers.
func NewSchema[T any](fields ...Field) (*Schema[T], error) {
	b, err := newBinding(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field without a name", ErrSchema)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: field %q declared twice", ErrSchema, f.Name)
		}
		seen[f.Name] = true
		if f.Validate == nil {
			return nil, fmt.Errorf("%w: field %q has no validator", ErrSchema, f.Name)
		}
		if _, err := lookupStrategy(f); err != nil {
			return nil, err
		}
	}

	if names := b.names(); names != nil {
		var missing []string
		for _, n := range names {
			if !seen[n] {
				missing = append(missing, n)
			}
			delete(seen, n)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: no descriptor for %s", ErrSchema, strings.Join(missing, ", "))
		}
		if len(seen) > 0 {
			extra := make([]string, 0, len(seen))
			for n := range seen {
				extra = append(extra, n)
			}
			sort.Strings(extra)
			return nil, fmt.Errorf("%w: no argument field for %s", ErrSchema, strings.Join(extra, ", "))
		}
	}

	s := &Schema[T]{fields: make([]Field, len(fields)), binding: b}
	copy(s.fields, fields)
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema variables.
func MustSchema[T any](fields ...Field) *Schema[T] {
	s, err := NewSchema[T](fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the descriptors in declaration order.
func (s *Schema[T]) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the descriptor of the named field.
func (s *Schema[T]) Lookup(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CheckPattern verifies that every path argument is a parameter of p and
// every parameter of p has a path argument.
func (s *Schema[T]) CheckPattern(p *routepath.Pattern) error {
	paths := make(map[string]bool)
	for _, f := range s.fields {
		if f.Source != SourcePath {
			continue
		}
		if !p.HasParam(f.Name) {
			return fmt.Errorf("%w: path argument %q is not a parameter of %s", ErrSchema, f.Name, p)
		}
		paths[f.Name] = true
	}
	for _, name := range p.Params() {
		if !paths[name] {
			return fmt.Errorf("%w: parameter %q of %s has no path argument", ErrSchema, name, p)
		}
	}
	return nil
}
