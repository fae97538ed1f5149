package args

import (
	"net/url"
	"strings"
)

// QueryPair is one key/value of a query string.
type QueryPair struct {
	Key   string
	Value string
}

// QueryValues is an ordered query string. Unlike url.Values it keeps the
// order in which keys were added, so encoding is deterministic in schema
// order.
type QueryValues []QueryPair

// Get returns the first value for key.
func (q QueryValues) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Add appends a pair.
func (q *QueryValues) Add(key, value string) {
	*q = append(*q, QueryPair{Key: key, Value: value})
}

// ParseQuery parses a raw query string, with or without the leading "?".
// It never fails: "+" decodes to a space, and escapes that are not valid are
// kept literally, the way browsers parse location.search.
func ParseQuery(raw string) QueryValues {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil
	}
	var out QueryValues
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		out = append(out, QueryPair{Key: unescapeLenient(key), Value: unescapeLenient(value)})
	}
	return out
}

// SerializeQuery is the inverse of ParseQuery. The result has no leading "?".
func SerializeQuery(q QueryValues) string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func unescapeLenient(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	// Decode the valid escapes one by one and keep the rest.
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func ishex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
