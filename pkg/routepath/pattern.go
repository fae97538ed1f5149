package routepath

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern errors.
var (
	ErrInvalidPattern = errors.New("invalid route pattern")
	ErrMissingParam   = errors.New("missing path parameter")
	ErrNoMatch        = errors.New("path does not match pattern")
)

// SegmentType distinguishes the segments of a route pattern.
type SegmentType uint8

const (
	StaticSegment SegmentType = iota
	ParamSegment
	CatchAllSegment
)

// Segment is one "/"-separated element of a pattern.
type Segment struct {
	Type SegmentType
	// Value is the literal text for static segments and the parameter name
	// otherwise.
	Value string
}

// Pattern is a parsed route pattern such as "/users/:id/files/*path".
type Pattern struct {
	raw      string
	segments []Segment
	params   []string
}

// Parse parses a route pattern. Parameters are written ":name", a trailing
// catch-all is written "*name".
func Parse(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w %q: must start with /", ErrInvalidPattern, pattern)
	}
	p := &Pattern{raw: pattern}
	if pattern == "/" {
		return p, nil
	}

	parts := strings.Split(strings.TrimSuffix(pattern[1:], "/"), "/")
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPattern, pattern)
		}
		seg := Segment{Type: StaticSegment, Value: part}
		switch part[0] {
		case ':':
			seg = Segment{Type: ParamSegment, Value: part[1:]}
		case '*':
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w %q: catch-all must be the last segment", ErrInvalidPattern, pattern)
			}
			seg = Segment{Type: CatchAllSegment, Value: part[1:]}
		}
		if seg.Type != StaticSegment {
			if seg.Value == "" {
				return nil, fmt.Errorf("%w %q: unnamed parameter", ErrInvalidPattern, pattern)
			}
			if seen[seg.Value] {
				return nil, fmt.Errorf("%w %q: duplicate parameter %q", ErrInvalidPattern, pattern, seg.Value)
			}
			seen[seg.Value] = true
			p.params = append(p.params, seg.Value)
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string) *Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written.
func (p *Pattern) String() string { return p.raw }

// Params returns the parameter names in pattern order.
func (p *Pattern) Params() []string {
	out := make([]string, len(p.params))
	copy(out, p.params)
	return out
}

// HasParam reports whether name is a parameter of the pattern.
func (p *Pattern) HasParam(name string) bool {
	for _, n := range p.params {
		if n == name {
			return true
		}
	}
	return false
}

// Segments returns the parsed segments.
func (p *Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsStatic reports whether the pattern has no parameters.
func (p *Pattern) IsStatic() bool { return len(p.params) == 0 }

// ToChi converts the pattern to chi's syntax: ":id" becomes "{id}" and a
// catch-all becomes "*".
func (p *Pattern) ToChi() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.Type {
		case ParamSegment:
			b.WriteString("{" + seg.Value + "}")
		case CatchAllSegment:
			b.WriteByte('*')
		default:
			b.WriteString(seg.Value)
		}
	}
	return b.String()
}

// Build substitutes params into the pattern. Values are unescaped; each is
// escaped here. A catch-all value may contain "/" and is escaped per segment.
func (p *Pattern) Build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.Type {
		case StaticSegment:
			b.WriteString(seg.Value)
		case ParamSegment:
			v, ok := params[seg.Value]
			if !ok || v == "" {
				return "", fmt.Errorf("%w %q", ErrMissingParam, seg.Value)
			}
			escaped, err := EscapeSegment(v)
			if err != nil {
				return "", fmt.Errorf("param %q: %w", seg.Value, err)
			}
			b.WriteString(escaped)
		case CatchAllSegment:
			v := params[seg.Value]
			parts := strings.Split(strings.TrimPrefix(v, "/"), "/")
			for i, part := range parts {
				if i > 0 {
					b.WriteByte('/')
				}
				escaped, _ := EscapeSegment(part)
				b.WriteString(escaped)
			}
		}
	}
	return b.String(), nil
}

// Extract matches an escaped path against the pattern and returns the
// decoded parameters.
func (p *Pattern) Extract(escapedPath string) (map[string]string, error) {
	params := make(map[string]string, len(p.params))
	trimmed := strings.Trim(escapedPath, "/")
	if len(p.segments) == 0 {
		if trimmed != "" {
			return nil, fmt.Errorf("%w: %q against %q", ErrNoMatch, escapedPath, p.raw)
		}
		return params, nil
	}

	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}
	for i, seg := range p.segments {
		if seg.Type == CatchAllSegment {
			rest := ""
			if i < len(parts) {
				rest = strings.Join(parts[i:], "/")
			}
			decoded, err := DecodeSegment(rest, true)
			if err != nil {
				return nil, err
			}
			params[seg.Value] = decoded
			return params, nil
		}
		if i >= len(parts) {
			return nil, fmt.Errorf("%w: %q against %q", ErrNoMatch, escapedPath, p.raw)
		}
		switch seg.Type {
		case StaticSegment:
			if parts[i] != seg.Value {
				return nil, fmt.Errorf("%w: %q against %q", ErrNoMatch, escapedPath, p.raw)
			}
		case ParamSegment:
			decoded, err := DecodeSegment(parts[i], false)
			if err != nil {
				return nil, fmt.Errorf("param %q: %w", seg.Value, err)
			}
			params[seg.Value] = decoded
		}
	}
	if len(parts) != len(p.segments) {
		return nil, fmt.Errorf("%w: %q against %q", ErrNoMatch, escapedPath, p.raw)
	}
	return params, nil
}
