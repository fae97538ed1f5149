package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	rterrors "github.com/vango-dev/typedroute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		rterrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// globals are the persistent flags shared by all commands.
type globals struct {
	dir      string
	manifest string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "typedroute",
		Short: "Typed route arguments for Go web applications",
		Long: `typedroute decodes URLs into typed route arguments and encodes
arguments back into URLs, using the routes declared in a manifest.

Commands:
  init     write a starter config and manifest
  routes   list the routes of the manifest
  decode   decode a URL with a route
  encode   build a URL from JSON arguments
  serve    serve the routes over HTTP and live sessions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				rterrors.DisableColors()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.dir, "dir", "C", ".", "Directory containing typedroute.yaml")
	flags.StringVarP(&g.manifest, "manifest", "m", "", "Route manifest (default from typedroute.yaml)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		initCmd(),
		routesCmd(g),
		decodeCmd(g),
		encodeCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// inputError reports a malformed flag or argument.
func inputError(detail string, err error) error {
	return rterrors.New("E180").WithDetail(detail).Wrap(err)
}
