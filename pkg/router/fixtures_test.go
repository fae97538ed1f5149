package router

import (
	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
)

type userArgs struct {
	ID   string `arg:"id"`
	Tab  string `arg:"tab"`
	From any    `arg:"from"`
}

var userSchema = args.MustSchema[userArgs](
	args.Path("id", args.String, args.Required[string]()),
	args.Query("tab", args.String, args.Default("overview")),
	args.State("from", args.Passthrough, args.Any()),
)

type userView struct {
	args userArgs
}

func (v userView) Render(b *element.Builder) any {
	b.P().T("user " + v.args.ID + " tab " + v.args.Tab)
	return nil
}

func userRoute() *Route[userArgs] {
	return Must(Config[userArgs]{
		Path:  "/users/:id",
		Name:  "user",
		Title: "User",
		Args:  userSchema,
		Component: func(a userArgs) element.Component {
			return userView{args: a}
		},
	})
}

type text string

func (s text) Render(b *element.Builder) any {
	b.P().T(string(s))
	return nil
}

func homeRoute() *Route[any] {
	r, err := Boring(BoringConfig{
		Path:      "/",
		Name:      "home",
		Component: func() element.Component { return text("home page") },
	})
	if err != nil {
		panic(err)
	}
	return r
}
