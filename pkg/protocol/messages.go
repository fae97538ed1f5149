package protocol

import (
	"fmt"
	"strings"
)

// Version is the protocol version announced in the handshake.
const Version = "1"

// Handshake is the first frame of a session.
type Handshake struct {
	SessionID string `json:"session_id"`
	Version   string `json:"version"`
}

// Location reports the browser location. Search and Hash are raw, as in
// window.location, with or without their leading "?" and "#".
type Location struct {
	Path   string         `json:"path"`
	Search string         `json:"search,omitempty"`
	Hash   string         `json:"hash,omitempty"`
	State  map[string]any `json:"state,omitempty"`
}

// Href joins the location parts into an href.
func (l Location) Href() string {
	var b strings.Builder
	b.WriteString(l.Path)
	if s := strings.TrimPrefix(l.Search, "?"); s != "" {
		b.WriteByte('?')
		b.WriteString(s)
	}
	if h := strings.TrimPrefix(l.Hash, "#"); h != "" {
		b.WriteByte('#')
		b.WriteString(h)
	}
	return b.String()
}

// Validate checks the limits of a client supplied location.
func (l Location) Validate() error {
	if !strings.HasPrefix(l.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidLocation, l.Path)
	}
	if len(l.Path)+len(l.Search)+len(l.Hash) > MaxHrefLength {
		return ErrHrefTooLong
	}
	return nil
}

// Navigate is a navigation request. From the client it names a route and
// its arguments; from the server it carries the href and state to apply.
type Navigate struct {
	Route string         `json:"route,omitempty"`
	Args  map[string]any `json:"args,omitempty"`
	URL   string         `json:"url,omitempty"`
	Mode  string         `json:"mode,omitempty"`
	State map[string]any `json:"state,omitempty"`
}

// Render carries the HTML of the current route.
type Render struct {
	Route string `json:"route"`
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
	HTML  string `json:"html"`
}
