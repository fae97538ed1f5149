package middleware

import (
	"context"
	"testing"

	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

type itemArgs struct {
	ID int `arg:"id"`
}

type text string

func (s text) Render(b *element.Builder) any {
	b.P().T(string(s))
	return nil
}

func itemRoute() *router.Route[itemArgs] {
	return router.Must(router.Config[itemArgs]{
		Path:  "/items/:id",
		Name:  "item",
		Title: "Item",
		Args: args.MustSchema[itemArgs](
			args.Path("id", args.Number, args.Int()),
		),
		Component: func(a itemArgs) element.Component { return text("item") },
	})
}

// renderHref resolves href on a table with mw and renders it.
func renderHref(t *testing.T, href string, trigger router.Trigger, mw ...router.Middleware) error {
	t.Helper()
	table, err := router.NewTable(itemRoute())
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	table.Use(mw...)
	h, snap, err := table.Snapshot(href, nil)
	if err != nil {
		t.Fatalf("Snapshot(%q) error: %v", href, err)
	}
	_, err = table.Render(context.Background(), h, snap, trigger)
	return err
}
