package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/typedroute"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr      string
		metrics   bool
		logFormat string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the manifest routes",
		Long: `Serve the manifest routes over HTTP, with live sessions on the
WebSocket path of typedroute.yaml.

Each route renders its decoded arguments. Prometheus metrics are served
on the metrics path when enabled.

Examples:
  typedroute serve
  typedroute serve --addr :3000 --metrics
  typedroute serve --log-format json --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics.Enabled = metrics
			}
			logger, err := newLogger(cmd.ErrOrStderr(), logFormat, logLevel)
			if err != nil {
				return err
			}

			app, err := typedroute.New(cfg, typedroute.WithLogger(logger))
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Serving %d routes on %s", len(app.Table().Routes()), cfg.Server.Address)
			if cfg.Metrics.Enabled {
				success(cmd.OutOrStdout(), "Metrics on %s", cfg.Metrics.Path)
			}
			return app.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from typedroute.yaml)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Serve Prometheus metrics")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, inputError("--log-level must be debug, info, warn or error.", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, inputError("--log-format must be text or json.", nil)
}
