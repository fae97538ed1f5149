package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/typedroute/pkg/args"
)

func encodeCmd(g *globals) *cobra.Command {
	var (
		argsJSON string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "encode <route>",
		Short: "Build a URL from route arguments",
		Long: `Encode JSON arguments with the named route and print the URL.

State-sourced arguments are not part of the URL; use --json to see them.

Examples:
  typedroute encode user --args '{"id":7,"tab":"posts"}'
  typedroute encode user --args '{"id":7,"from":"search"}' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, a []string) error {
			p, err := g.loadProject()
			if err != nil {
				return err
			}
			r, err := p.route(a[0])
			if err != nil {
				return err
			}
			vals, err := parseObject("--args", argsJSON)
			if err != nil {
				return err
			}

			target, err := r.TargetOf(vals)
			if err != nil {
				return args.Coded(err).WithRoute(r.Path())
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), target)
			}
			fmt.Fprintln(cmd.OutOrStdout(), target.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&argsJSON, "args", "", "Arguments as a JSON object")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print path and state as JSON")

	return cmd
}
