package args

import (
	"fmt"
	"reflect"
	"strings"
)

// binding moves named values into and out of an argument object of type T.
type binding interface {
	// names returns the bindable names, or nil when any name is accepted.
	names() []string
	build(pairs []pair) (reflect.Value, error)
	get(v reflect.Value, name string) (any, bool)
}

type pair struct {
	field Field
	value any
}

var valuesType = reflect.TypeOf(Values(nil))

func newBinding(t reflect.Type) (binding, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: argument type must be a struct or args.Values", ErrSchema)
	}
	switch {
	case t == valuesType || (t.Kind() == reflect.Map && t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Interface):
		return mapBinding{typ: t}, nil
	case t.Kind() == reflect.Struct:
		return newStructBinding(t)
	}
	return nil, fmt.Errorf("%w: argument type %s must be a struct or args.Values", ErrSchema, t)
}

type mapBinding struct {
	typ reflect.Type
}

func (mapBinding) names() []string { return nil }

func (b mapBinding) build(pairs []pair) (reflect.Value, error) {
	m := reflect.MakeMapWithSize(b.typ, len(pairs))
	for _, p := range pairs {
		val := reflect.New(b.typ.Elem()).Elem()
		if p.value != nil {
			src := reflect.ValueOf(p.value)
			if !src.Type().AssignableTo(val.Type()) {
				return reflect.Value{}, fieldError(p.field, CodeTypeMismatch,
					fmt.Errorf("cannot assign %T to %s", p.value, val.Type()))
			}
			val.Set(src)
		}
		m.SetMapIndex(reflect.ValueOf(p.field.Name), val)
	}
	return m, nil
}

func (mapBinding) get(v reflect.Value, name string) (any, bool) {
	if v.IsNil() {
		return nil, false
	}
	e := v.MapIndex(reflect.ValueOf(name))
	if !e.IsValid() {
		return nil, false
	}
	return defined(e.Interface())
}

type structBinding struct {
	typ   reflect.Type
	index map[string][]int
	order []string
}

// argName returns the argument name of a struct field: its arg tag, or the
// lower-cased field name.
func argName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("arg")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return strings.ToLower(f.Name), true
}

func newStructBinding(t reflect.Type) (*structBinding, error) {
	b := &structBinding{typ: t, index: make(map[string][]int)}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous {
			continue
		}
		name, ok := argName(f)
		if !ok {
			continue
		}
		if _, dup := b.index[name]; dup {
			return nil, fmt.Errorf("%w: %s has two fields named %q", ErrSchema, t, name)
		}
		b.index[name] = f.Index
		b.order = append(b.order, name)
	}
	return b, nil
}

func (b *structBinding) names() []string { return b.order }

func (b *structBinding) build(pairs []pair) (reflect.Value, error) {
	out := reflect.New(b.typ).Elem()
	for _, p := range pairs {
		dst := out.FieldByIndex(b.index[p.field.Name])
		if err := assign(dst, p.value); err != nil {
			return reflect.Value{}, fieldError(p.field, CodeTypeMismatch, err)
		}
	}
	return out, nil
}

func (b *structBinding) get(v reflect.Value, name string) (any, bool) {
	idx, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return defined(v.FieldByIndex(idx).Interface())
}

// assign stores v into dst. Numeric and string values convert between
// types of the same family; integer targets reject values they cannot hold
// exactly.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if f, ok := toFloat(v); ok && isNumeric(dst.Kind()) {
		conv, err := convertNumber(f, dst.Type())
		if err != nil {
			return err
		}
		dst.Set(conv)
		return nil
	}
	if src.Kind() == reflect.String && dst.Kind() == reflect.String {
		dst.SetString(src.String())
		return nil
	}
	if dst.Kind() == reflect.Pointer && src.Type().AssignableTo(dst.Type().Elem()) {
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(src)
		dst.Set(p)
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// defined reports v unless it is undefined: a nil interface, pointer, map,
// slice, func or chan.
func defined(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}
