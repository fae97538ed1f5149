package main

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/vango-dev/typedroute/internal/config"
	rterrors "github.com/vango-dev/typedroute/internal/errors"
	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/manifest"
	"github.com/vango-dev/typedroute/pkg/router"
)

// loadConfig loads typedroute.yaml from the project directory, falling back
// to defaults when there is none. --manifest overrides the manifest path.
func (g *globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.New()
		cfg.Manifest = filepath.Join(g.dir, config.DefaultManifest)
	case err != nil:
		return nil, err
	}
	if g.manifest != "" {
		abs, err := filepath.Abs(g.manifest)
		if err != nil {
			return nil, inputError("Invalid --manifest path", err)
		}
		cfg.Manifest = abs
	}
	return cfg, nil
}

// project is a loaded manifest with its compiled routes.
type project struct {
	config *config.Config
	routes map[string]*router.Route[args.Values]
	table  *router.Table
}

func (g *globals) loadProject() (*project, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return nil, rterrors.New("E161").
			WithSuggestion("Pass --manifest or set manifest in typedroute.yaml").
			Wrap(err)
	}
	compiled, err := m.Compile()
	if err != nil {
		return nil, rterrors.New("E161").Wrap(err)
	}
	p := &project{config: cfg, routes: make(map[string]*router.Route[args.Values], len(compiled))}
	hs := make([]router.Handler, len(compiled))
	for i, r := range compiled {
		p.routes[r.Name()] = r
		hs[i] = r
	}
	p.table, err = router.NewTable(hs...)
	if err != nil {
		return nil, rterrors.New("E161").Wrap(err)
	}
	return p, nil
}

// route returns the named route or E121.
func (p *project) route(name string) (*router.Route[args.Values], error) {
	r, ok := p.routes[name]
	if !ok {
		return nil, rterrors.New("E121").
			WithDetail("No route named " + name + " in the manifest.").
			WithSuggestion("Run typedroute routes to list the route names")
	}
	return r, nil
}
