package routetest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

// Snapshot resolves href against the pattern of r and builds its snapshot.
func Snapshot[T any](t *testing.T, r *router.Route[T], href string, state map[string]any) args.Snapshot {
	t.Helper()
	table, err := router.NewTable(r)
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	h, snap, err := table.Snapshot(href, state)
	if err != nil {
		t.Fatalf("Snapshot(%q) error: %v", href, err)
	}
	if h.Name() != r.Name() {
		t.Fatalf("%q resolved to route %s, want %s", href, h.Name(), r.Name())
	}
	return snap
}

// Decode decodes href with r and fails the test on error.
func Decode[T any](t *testing.T, r *router.Route[T], href string, state map[string]any) T {
	t.Helper()
	v, err := r.Decode(Snapshot(t, r, href, state))
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", href, err)
	}
	return v
}

// DecodeError decodes href with r and returns the field error it must fail
// with.
func DecodeError[T any](t *testing.T, r *router.Route[T], href string, state map[string]any) *args.FieldError {
	t.Helper()
	_, err := r.Decode(Snapshot(t, r, href, state))
	var fe *args.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Decode(%q) error = %v, want *args.FieldError", href, err)
	}
	return fe
}

// RoundTrip encodes v with r, decodes the target and checks that the
// result equals v. It returns the target.
func RoundTrip[T any](t *testing.T, r *router.Route[T], v T) args.Target {
	t.Helper()
	target, err := r.Target(v)
	if err != nil {
		t.Fatalf("Target(%+v) error: %v", v, err)
	}
	snap, err := args.SnapshotFromTarget(r.Pattern(), target)
	if err != nil {
		t.Fatalf("SnapshotFromTarget(%q) error: %v", target.Path, err)
	}
	got, err := r.Decode(snap)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", target.Path, err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Errorf("round trip through %q: got %+v, want %+v", target.Path, got, v)
	}
	return target
}

// Render resolves href on table and renders the route component, without
// the page shell.
func Render(t *testing.T, table *router.Table, href string, state map[string]any) string {
	t.Helper()
	h, snap, err := table.Snapshot(href, state)
	if err != nil {
		t.Fatalf("Snapshot(%q) error: %v", href, err)
	}
	comp, err := table.Render(context.Background(), h, snap, router.TriggerRequest)
	if err != nil {
		t.Fatalf("Render(%q) error: %v", href, err)
	}
	return router.HTML(comp)
}

// ExpectContains asserts that html contains expected.
func ExpectContains(t *testing.T, html, expected string) {
	t.Helper()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that html does not contain unexpected.
func ExpectNotContains(t *testing.T, html, unexpected string) {
	t.Helper()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that html contains a tag.
func ExpectElement(t *testing.T, html, tag string) {
	t.Helper()
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that html contains attr="value".
func ExpectAttribute(t *testing.T, html, attr, value string) {
	t.Helper()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
