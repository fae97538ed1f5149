package args

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrRequired is returned by validators of required arguments that are absent.
var ErrRequired = errors.New("required")

// Default accepts values convertible to T and yields def when absent.
func Default[T any](def T) ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok {
			return def, nil
		}
		return convert[T](v)
	}
}

// Required accepts values convertible to T and fails when absent.
func Required[T any]() ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok {
			return nil, ErrRequired
		}
		return convert[T](v)
	}
}

// Optional yields a *T: nil when absent.
func Optional[T any]() ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok {
			return (*T)(nil), nil
		}
		t, err := convert[T](v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

// Int is Required for int.
func Int() ValidateFunc { return Required[int]() }

// OneOf yields def when absent and otherwise accepts only the allowed values.
func OneOf[T comparable](def T, allowed ...T) ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok {
			return def, nil
		}
		t, err := convert[T](v)
		if err != nil {
			return nil, err
		}
		for _, a := range allowed {
			if t == a {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%v is not one of %v", t, allowed)
	}
}

// JSON decodes a JSON document into T. It accepts both values the
// codec already parsed and JSON strings, which is what hash arguments
// receive. Absent values yield the zero T.
func JSON[T any]() ValidateFunc {
	return func(v any, ok bool) (any, error) {
		var t T
		if !ok {
			return t, nil
		}
		var data []byte
		if s, isString := v.(string); isString {
			data = []byte(s)
		} else {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			data = b
		}
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// UUID accepts a UUID string and yields a uuid.UUID.
func UUID() ValidateFunc {
	return func(v any, ok bool) (any, error) {
		if !ok {
			return nil, ErrRequired
		}
		switch id := v.(type) {
		case uuid.UUID:
			return id, nil
		case string:
			return uuid.Parse(id)
		}
		return nil, fmt.Errorf("expected a uuid, got %T", v)
	}
}

// Any accepts every value as it is, nil when absent.
func Any() ValidateFunc {
	return func(v any, ok bool) (any, error) {
		return v, nil
	}
}

// Refine runs base and then check on its result.
func Refine[T any](base ValidateFunc, check func(T) error) ValidateFunc {
	return func(v any, ok bool) (any, error) {
		out, err := base(v, ok)
		if err != nil {
			return nil, err
		}
		t, isT := out.(T)
		if !isT {
			return nil, fmt.Errorf("expected %T, got %T", t, out)
		}
		if err := check(t); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// convert converts v to T. Numbers convert between numeric types when no
// precision is lost; NaN is rejected.
func convert[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		if f, isFloat := any(t).(float64); isFloat && math.IsNaN(f) {
			return zero, errors.New("not a number")
		}
		return t, nil
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil {
		return zero, fmt.Errorf("expected %s, got null", typ)
	}
	if f, ok := toFloat(v); ok && isNumeric(typ.Kind()) {
		rv, err := convertNumber(f, typ)
		if err != nil {
			return zero, err
		}
		return rv.Interface().(T), nil
	}
	src := reflect.ValueOf(v)
	if src.Kind() == typ.Kind() && src.Type().ConvertibleTo(typ) &&
		(typ.Kind() == reflect.String || typ.Kind() == reflect.Bool) {
		return src.Convert(typ).Interface().(T), nil
	}
	return zero, fmt.Errorf("expected %s, got %T", typ, v)
}

func convertNumber(f float64, typ reflect.Type) (reflect.Value, error) {
	if math.IsNaN(f) {
		return reflect.Value{}, errors.New("not a number")
	}
	out := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, fmt.Errorf("%v is not a valid %s", f, typ)
		}
		out.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
			return reflect.Value{}, fmt.Errorf("%v is not a valid %s", f, typ)
		}
		out.SetUint(uint64(f))
	case reflect.Float32, reflect.Float64:
		if !math.IsInf(f, 0) && out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", f, typ)
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("%s is not numeric", typ)
	}
	return out, nil
}
