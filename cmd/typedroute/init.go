package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/typedroute/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		name     string
		addr     string
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter typedroute.yaml and route manifest",
		Long: `Write typedroute.yaml and routes.yaml into a directory.

Templates:
  minimal   a single home route
  full      routes using every argument source, metrics and tracing

Existing files are never overwritten.

Examples:
  typedroute init
  typedroute init shop --template full --addr :3000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, a []string) error {
			dir := "."
			if len(a) == 1 {
				dir = a[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return inputError("Invalid directory", err)
			}
			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(abs, templates.Config{ProjectName: name, Address: addr}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range tmpl.Paths() {
				success(out, "Created %s", filepath.Join(dir, p))
			}
			fmt.Fprintf(out, "\n  typedroute routes -C %s\n  typedroute serve -C %s\n", dir, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Template: minimal or full")
	cmd.Flags().StringVar(&name, "name", "", "Project name used in titles (default: directory name)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}
