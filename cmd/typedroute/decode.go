package main

import (
	"errors"
	"io"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	rterrors "github.com/vango-dev/typedroute/internal/errors"
	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

func decodeCmd(g *globals) *cobra.Command {
	var stateJSON string

	cmd := &cobra.Command{
		Use:   "decode <route> <url>",
		Short: "Decode a URL into route arguments",
		Long: `Decode a URL with the named route and print the arguments as JSON.

The URL may be a path ("/users/7?tab=posts#top") or an absolute URL.
History state is passed as a JSON object with --state.

Examples:
  typedroute decode user /users/7?tab=posts
  typedroute decode user '/users/7#top' --state '{"from":"search"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, a []string) error {
			p, err := g.loadProject()
			if err != nil {
				return err
			}
			r, err := p.route(a[0])
			if err != nil {
				return err
			}
			state, err := parseObject("--state", stateJSON)
			if err != nil {
				return err
			}
			href, err := relativeHref(a[1])
			if err != nil {
				return err
			}

			h, snap, err := p.table.Snapshot(href, state)
			if err != nil {
				if errors.Is(err, router.ErrNotFound) {
					return rterrors.New("E121").WithDetail("No route matches " + href + ".").Wrap(err)
				}
				return rterrors.New("E123").Wrap(err)
			}
			if h.Name() != r.Name() {
				return rterrors.New("E121").
					WithDetail(href + " matches route " + h.Name() + ", not " + r.Name() + ".").
					WithRoute(r.Path())
			}

			v, err := r.Decode(snap)
			if err != nil {
				return args.Coded(err).WithRoute(r.Path())
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"route": r.Name(),
				"args":  v,
			})
		},
	}

	cmd.Flags().StringVar(&stateJSON, "state", "", "History state as a JSON object")

	return cmd
}

// relativeHref strips the scheme and host of absolute URLs.
func relativeHref(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", inputError("The URL could not be parsed.", err)
	}
	if !u.IsAbs() && u.Host == "" {
		return raw, nil
	}
	u.Scheme, u.Host, u.User = "", "", nil
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// parseObject parses a JSON object flag. An empty flag yields nil.
func parseObject(flag, raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, inputError(flag+" must be a JSON object.", err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
