package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes of the manifest",
		Long: `List every route of the manifest with its pattern and arguments.

Arguments are shown as name:source/kind.

Examples:
  typedroute routes
  typedroute routes --manifest config/routes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.loadProject()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(p.routes))
			for name := range p.routes {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tARGS")
			for _, name := range names {
				r := p.routes[name]
				fields := make([]string, 0, len(r.Fields()))
				for _, f := range r.Fields() {
					fields = append(fields, fmt.Sprintf("%s:%s/%s", f.Name, f.Source, f.Kind))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, r.Path(), strings.Join(fields, " "))
			}
			return w.Flush()
		},
	}
}
