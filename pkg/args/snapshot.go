package args

import (
	"fmt"
	"net/url"

	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Snapshot is the location a decode reads from.
type Snapshot struct {
	// Params are the decoded path parameters matched by the router.
	Params map[string]string

	// Query is the raw query string, with or without the leading "?".
	Query string

	// Hash is the fragment as it appears in the URL, still escaped, with or
	// without the leading "#". Hash arguments percent-decode it once.
	Hash string

	// State is the state of the current navigation entry.
	State map[string]any
}

// Target is where an encode points to.
type Target struct {
	// Path is the href: escaped path, query and fragment.
	Path string `json:"path"`

	// State is the navigation state, nil when no state argument is set.
	State map[string]any `json:"state,omitempty"`
}

// SnapshotFromTarget builds the snapshot a navigation to t produces on the
// route with the given pattern.
func SnapshotFromTarget(pattern *routepath.Pattern, t Target) (Snapshot, error) {
	u, err := url.Parse(t.Path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse target %q: %w", t.Path, err)
	}
	params, err := pattern.Extract(u.EscapedPath())
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Params: params,
		Query:  u.RawQuery,
		Hash:   u.EscapedFragment(),
		State:  t.State,
	}, nil
}
