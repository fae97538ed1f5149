package args

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Decode reads the argument object from a location snapshot. Fields are
// processed in schema order; the first failing field aborts the decode.
func (s *Schema[T]) Decode(snap Snapshot) (T, error) {
	var zero T

	var (
		query       QueryValues
		queryParsed bool
		hash        string
		hashErr     error
		hashParsed  bool
	)

	pairs := make([]pair, 0, len(s.fields))
	for _, f := range s.fields {
		st, err := lookupStrategy(f)
		if err != nil {
			return zero, err
		}

		var (
			raw any
			ok  bool
		)
		switch f.Source {
		case SourcePath:
			raw, ok = snap.Params[f.Name]
		case SourceQuery:
			if !queryParsed {
				query = ParseQuery(snap.Query)
				queryParsed = true
			}
			var v string
			v, ok = query.Get(f.Name)
			ok = ok && v != ""
			raw = v
		case SourceHash:
			if !hashParsed {
				hash, hashErr = unescapeHash(snap.Hash)
				hashParsed = true
			}
			if hashErr != nil {
				return zero, fieldError(f, CodeMalformedEscape, hashErr)
			}
			raw, ok = hash, hash != ""
		case SourceState:
			raw, ok = snap.State[f.Name]
		}

		var converted any
		if ok {
			v, code, err := st.decode(raw)
			if err != nil {
				return zero, fieldError(f, code, err)
			}
			converted = v
		}

		value, err := f.Validate(converted, ok)
		if err != nil {
			return zero, fieldError(f, CodeValidation, err)
		}
		pairs = append(pairs, pair{field: f, value: value})
	}

	out, err := s.binding.build(pairs)
	if err != nil {
		return zero, err
	}
	return out.Interface().(T), nil
}

// unescapeHash percent-decodes the fragment once. Structured hash values
// reach their validator as the decoded string.
func unescapeHash(fragment string) (string, error) {
	return url.PathUnescape(strings.TrimPrefix(fragment, "#"))
}

// Encode builds the navigation target of v on the route with the given
// pattern.
func (s *Schema[T]) Encode(pattern string, v T) (Target, error) {
	p, err := routepath.Parse(pattern)
	if err != nil {
		return Target{}, err
	}
	return s.EncodePattern(p, v)
}

// EncodePattern is Encode with a parsed pattern.
func (s *Schema[T]) EncodePattern(p *routepath.Pattern, v T) (Target, error) {
	return s.encode(p, v, nil)
}

// EncodeValues validates untyped values like Bind and encodes the fields
// present in vals. Absent fields stay out of the target even when their
// validator yields a default.
func (s *Schema[T]) EncodeValues(p *routepath.Pattern, vals map[string]any) (Target, error) {
	v, err := s.Bind(vals)
	if err != nil {
		return Target{}, err
	}
	present := make(map[string]bool, len(vals))
	for name, x := range vals {
		present[name] = x != nil
	}
	return s.encode(p, v, present)
}

// encode builds the target of v. A non-nil present map limits the encoded
// fields to the names it marks.
func (s *Schema[T]) encode(p *routepath.Pattern, v T, present map[string]bool) (Target, error) {
	rv := reflect.ValueOf(&v).Elem()

	params := make(map[string]string)
	var (
		query   QueryValues
		hash    string
		hashSet bool
		state   map[string]any
	)

	for _, f := range s.fields {
		st, err := lookupStrategy(f)
		if err != nil {
			return Target{}, err
		}

		var (
			value any
			ok    bool
		)
		if present == nil || present[f.Name] {
			value, ok = s.binding.get(rv, f.Name)
		}
		if !ok {
			if f.Source == SourcePath {
				return Target{}, fieldError(f, CodeMissingPath, ErrMissingPath)
			}
			continue
		}

		if f.Source == SourceState {
			if state == nil {
				state = make(map[string]any)
			}
			state[f.Name] = value
			continue
		}

		str, err := st.encode(deref(value))
		if err != nil {
			return Target{}, fieldError(f, CodeUnencodable, err)
		}

		switch f.Source {
		case SourcePath:
			params[f.Name] = str
		case SourceQuery:
			query.Add(f.Name, str)
		case SourceHash:
			if !hashSet {
				hash, hashSet = str, true
			}
		}
	}

	path, err := p.Build(params)
	if err != nil {
		if errors.Is(err, routepath.ErrMissingParam) {
			return Target{}, fmt.Errorf("%w: %v", ErrMissingPath, err)
		}
		return Target{}, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}

	loc := routepath.Location{Path: path, Query: SerializeQuery(query)}
	if hashSet {
		loc.Fragment = url.PathEscape(hash)
	}
	return Target{Path: loc.String(), State: state}, nil
}

// Href is the path of Encode, or an error.
func (s *Schema[T]) Href(p *routepath.Pattern, v T) (string, error) {
	t, err := s.EncodePattern(p, v)
	if err != nil {
		return "", err
	}
	return t.Path, nil
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Interface()
}

// Bind builds the argument object from already typed values, such as the
// JSON arguments of a navigate request. Each value goes through its field's
// validator without kind conversion; nil and missing keys are absent.
func (s *Schema[T]) Bind(vals map[string]any) (T, error) {
	var zero T
	pairs := make([]pair, 0, len(s.fields))
	for _, f := range s.fields {
		v, ok := vals[f.Name]
		ok = ok && v != nil
		value, err := f.Validate(v, ok)
		if err != nil {
			return zero, fieldError(f, CodeValidation, err)
		}
		pairs = append(pairs, pair{field: f, value: value})
	}
	out, err := s.binding.build(pairs)
	if err != nil {
		return zero, err
	}
	return out.Interface().(T), nil
}
