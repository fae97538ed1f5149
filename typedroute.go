// Package typedroute binds typed route arguments to URLs and serves them.
//
// Routes declare where each argument lives (path segment, query parameter,
// URL fragment or history state) and what kind of value it is. Incoming
// locations decode into the route's argument type and typed values encode
// back into a path and state:
//
//	type UserArgs struct {
//	    ID  int    `arg:"id"`
//	    Tab string `arg:"tab"`
//	}
//
//	user := router.Must(router.Config[UserArgs]{
//	    Path: "/users/:id",
//	    Args: args.MustSchema[UserArgs](
//	        args.Path("id", args.Number, args.Int()),
//	        args.Query("tab", args.String, args.Default("overview")),
//	    ),
//	    Component: UserPage,
//	})
//
//	app, err := typedroute.New(typedroute.DefaultConfig(), typedroute.WithRoutes(user))
//	app.Run()
//
// Routes can also be declared in a YAML manifest; see pkg/manifest.
package typedroute

import (
	"github.com/vango-dev/typedroute/internal/config"
	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/router"
)

// Config is the application configuration read from typedroute.yaml.
type Config = config.Config

// Core types re-exported for applications that only import this package.
type (
	Snapshot   = args.Snapshot
	Target     = args.Target
	Field      = args.Field
	Values     = args.Values
	FieldError = args.FieldError
	Handler    = router.Handler
	Middleware = router.Middleware
	Ctx        = router.Ctx
	History    = router.History
)

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return config.New()
}

// LoadConfig loads typedroute.yaml from dir.
func LoadConfig(dir string) (*Config, error) {
	return config.Load(dir)
}
