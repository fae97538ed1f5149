package router

import (
	"html"
	"net/http"
	"strconv"

	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/args"
)

// HTML renders a component to a string.
func HTML(c element.Component) string {
	b := element.NewBuilder()
	element.RenderComponents(b, c)
	return b.String()
}

// DefaultShell is a minimal page: the route renders into #app.
func DefaultShell(title string, body element.Component) element.Component {
	return page{Title: title, Body: body}
}

type page struct {
	Title   string
	Body    element.Component
	Scripts []string
}

func (p page) Render(b *element.Builder) any {
	b.Html().R(
		b.Head().R(
			b.Title().T(html.EscapeString(p.Title)),
		),
		b.Body().R(
			b.Div("id", "app").R(
				element.RenderComponents(b, p.Body),
			),
			p.renderScripts(b),
		),
	)
	return nil
}

func (p page) renderScripts(b *element.Builder) any {
	for _, src := range p.Scripts {
		b.Script("src", src).R()
	}
	return nil
}

// ShellWithScripts is DefaultShell plus script tags at the end of the body.
func ShellWithScripts(srcs ...string) Shell {
	return func(title string, body element.Component) element.Component {
		return page{Title: title, Body: body, Scripts: srcs}
	}
}

// ErrorPage renders a failed render.
type ErrorPage struct {
	Status int
	Err    error
}

// Render implements element.Component.
func (e ErrorPage) Render(b *element.Builder) any {
	b.DivClass("route-error", "data-status", strconv.Itoa(e.Status)).R(
		b.H1().T(strconv.Itoa(e.Status)+" "+http.StatusText(e.Status)),
		b.P().T(html.EscapeString(e.message())),
	)
	return nil
}

func (e ErrorPage) message() string {
	if e.Err == nil {
		return ""
	}
	if coded := args.Coded(e.Err); coded != nil && e.Status == http.StatusBadRequest {
		return coded.FormatCompact()
	}
	return e.Err.Error()
}
