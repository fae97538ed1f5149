package router

import (
	"html"
	"strings"

	"github.com/rohanthewiz/element"

	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Link is an anchor a live client intercepts: on click it reports the new
// location over the session instead of loading the page.
type Link struct {
	Href    string
	Text    string
	Class   string
	Replace bool
}

// Render implements element.Component.
func (l Link) Render(b *element.Builder) any {
	b.A(l.attrs(l.Class)...).T(html.EscapeString(l.Text))
	return nil
}

func (l Link) attrs(class string) []string {
	attrs := []string{"href", l.Href, "data-link", "true"}
	if class != "" {
		attrs = append(attrs, "class", class)
	}
	if l.Replace {
		attrs = append(attrs, "data-replace", "true")
	}
	return attrs
}

// NavLink is a Link that carries ActiveClass while Current matches its path.
type NavLink struct {
	Link

	// Current is the href of the current location.
	Current string

	// ActiveClass defaults to "active".
	ActiveClass string

	// Prefix also activates the link for locations below its path.
	Prefix bool
}

// Active reports whether the link points at the current location.
func (n NavLink) Active() bool {
	href := routepath.SplitLocation(n.Href).Path
	cur := routepath.SplitLocation(n.Current).Path
	if href == cur {
		return true
	}
	return n.Prefix && strings.HasPrefix(cur, strings.TrimSuffix(href, "/")+"/")
}

// Render implements element.Component.
func (n NavLink) Render(b *element.Builder) any {
	class := n.Class
	if n.Active() {
		active := n.ActiveClass
		if active == "" {
			active = "active"
		}
		class = strings.TrimSpace(class + " " + active)
	}
	b.A(n.attrs(class)...).T(html.EscapeString(n.Text))
	return nil
}

// LinkTo builds a Link to the route of a for v.
func LinkTo[T any](a Actions[T], v T, text string) (Link, error) {
	href, err := a.Href(v)
	if err != nil {
		return Link{}, err
	}
	return Link{Href: href, Text: text}, nil
}
