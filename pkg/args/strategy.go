package args

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"

	"github.com/goccy/go-json"
)

// strategy converts one (source, kind) pair in both directions.
type strategy struct {
	// decode converts a present raw value before validation. A returned error
	// carries the code to report.
	decode func(raw any) (any, string, error)

	// encode formats a defined value for the URL. State strategies leave it
	// nil: their values are carried as they are.
	encode func(v any) (string, error)
}

type strategyKey struct {
	source Source
	kind   Kind
}

var (
	identity = func(raw any) (any, string, error) { return raw, "", nil }

	stringStrategy      = strategy{decode: identity, encode: formatString}
	passthroughStrategy = strategy{decode: identity, encode: formatAny}
	numberStrategy      = strategy{decode: decodeNumber, encode: encodeNumber}
	booleanStrategy     = strategy{decode: decodeBoolean, encode: encodeBoolean}
	stateStrategy       = strategy{decode: identity}
)

var strategies = map[strategyKey]strategy{
	{SourcePath, String}:      stringStrategy,
	{SourcePath, Number}:      numberStrategy,
	{SourcePath, Boolean}:     booleanStrategy,
	{SourcePath, Passthrough}: passthroughStrategy,

	{SourceQuery, String}:      stringStrategy,
	{SourceQuery, Number}:      numberStrategy,
	{SourceQuery, Boolean}:     booleanStrategy,
	{SourceQuery, Structured}:  {decode: decodeStructuredQuery, encode: encodeJSON},
	{SourceQuery, Passthrough}: passthroughStrategy,

	{SourceHash, String}:      stringStrategy,
	{SourceHash, Number}:      numberStrategy,
	{SourceHash, Boolean}:     booleanStrategy,
	{SourceHash, Structured}:  {decode: identity, encode: encodeJSON},
	{SourceHash, Passthrough}: passthroughStrategy,

	{SourceState, String}:      stateStrategy,
	{SourceState, Number}:      stateStrategy,
	{SourceState, Boolean}:     stateStrategy,
	{SourceState, Structured}:  stateStrategy,
	{SourceState, Passthrough}: stateStrategy,
}

func lookupStrategy(f Field) (strategy, error) {
	s, ok := strategies[strategyKey{f.Source, f.Kind}]
	if !ok {
		return strategy{}, fmt.Errorf("%w: field %q: %s arguments cannot be %s", ErrSchema, f.Name, f.Source, f.Kind)
	}
	return s, nil
}

func decodeNumber(raw any) (any, string, error) {
	return coerceNumber(raw.(string)), "", nil
}

// decodeBoolean parses the raw value as a JSON literal. Well-formed literals
// that are not booleans reach the validator.
func decodeBoolean(raw any) (any, string, error) {
	var v any
	if err := json.Unmarshal([]byte(raw.(string)), &v); err != nil {
		return nil, CodeMalformedBoolean, err
	}
	return v, "", nil
}

// decodeStructuredQuery parses JSON, retrying once on a syntax error with the
// percent-decoded value.
func decodeStructuredQuery(raw any) (any, string, error) {
	s := raw.(string)
	var v any
	err := json.Unmarshal([]byte(s), &v)
	if err == nil {
		return v, "", nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, CodeMalformedJSON, err
	}
	unescaped, uerr := url.PathUnescape(s)
	if uerr != nil {
		return nil, CodeMalformedJSON, err
	}
	v = nil
	if err := json.Unmarshal([]byte(unescaped), &v); err != nil {
		return nil, CodeMalformedJSON, err
	}
	return v, "", nil
}

func formatString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %T is not a string", ErrUnencodable, v)
}

func formatAny(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func encodeNumber(v any) (string, error) {
	if s, ok := formatNumber(v); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %T is not a number", ErrUnencodable, v)
}

func encodeBoolean(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		if rv.Bool() {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("%w: %T is not a boolean", ErrUnencodable, v)
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return string(b), nil
}
