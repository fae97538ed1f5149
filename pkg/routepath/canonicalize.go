package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Location is an href split into its escaped parts.
type Location struct {
	// Path is the escaped path, always starting with "/".
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Fragment is the raw fragment without the leading "#".
	Fragment string
}

// String reassembles the location into an href.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Path)
	if l.Query != "" {
		b.WriteByte('?')
		b.WriteString(l.Query)
	}
	if l.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(l.Fragment)
	}
	return b.String()
}

// Path canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// SplitLocation splits an href into path, query and fragment. The fragment is
// cut first, so a "?" inside the fragment stays part of it.
func SplitLocation(href string) Location {
	rest, fragment, _ := strings.Cut(href, "#")
	path, query, _ := strings.Cut(rest, "?")
	return Location{Path: path, Query: query, Fragment: fragment}
}

// CanonicalizePath normalizes the path part of an href:
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/blog//post → /blog/post)
//   - Remove "." segments (/blog/./post → /blog/post)
//   - Resolve ".." segments (/blog/../other → /other)
//
// The following inputs are rejected with an error:
//   - Paths containing backslash (\)
//   - Paths containing NUL byte (%00)
//   - Invalid percent-escapes (e.g., %GG, %2)
//   - ".." that would escape root (e.g., /../secret)
//
// Query and fragment are preserved but not canonicalized. changed reports
// whether the path was modified.
func CanonicalizePath(href string) (loc Location, changed bool, err error) {
	loc = SplitLocation(href)
	if loc.Path == "" {
		loc.Path = "/"
		return loc, true, nil
	}

	path := loc.Path

	if strings.Contains(path, "\\") {
		return Location{}, false, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Location{}, false, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Location{}, false, err
		}
	}

	original := path

	segments := strings.Split(path, "/")
	result := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return Location{}, false, ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	loc.Path = "/" + strings.Join(result, "/")
	return loc, loc.Path != original, nil
}

// ValidateNavTarget canonicalizes a navigation target and rejects anything
// that is not a same-origin relative href:
//   - MUST start with "/"
//   - MUST NOT be a full URL ("http://", "https://") or protocol-relative ("//")
func ValidateNavTarget(href string) (string, error) {
	if strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(href, "/") {
		return "", ErrInvalidPath
	}

	loc, _, err := CanonicalizePath(href)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// validatePercentEscapes checks that all percent-escapes are valid.
// Valid escapes are %XX where X is a hex digit (0-9, a-f, A-F).
func validatePercentEscapes(path string) error {
	i := 0
	for i < len(path) {
		if path[i] == '%' {
			if i+2 >= len(path) {
				return ErrInvalidPercentEscape
			}
			if !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
				return ErrInvalidPercentEscape
			}
			i += 3
		} else {
			i++
		}
	}
	return nil
}

// isHexDigit returns true if c is a valid hex digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment decodes a single path segment.
// For non-catch-all params, if decoding produces "/" (i.e., %2F was present),
// this returns an error as it indicates a path smuggling attempt.
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}

	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}

	return decoded, nil
}

// EscapeSegment is the inverse of DecodeSegment for a non-catch-all segment.
func EscapeSegment(value string) (string, error) {
	if strings.Contains(value, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return url.PathEscape(value), nil
}
