// Package manifest declares routes in YAML and compiles them into routes
// over args.Values.
//
//	routes:
//	  - name: user
//	    path: /users/:id
//	    title: User
//	    args:
//	      id:   {source: path, kind: number, format: int}
//	      tab:  {source: query, kind: string, default: overview, enum: [overview, posts]}
//	      from: {source: state, kind: passthrough}
//
// Arguments keep the order they are written in, which is the order query
// parameters are serialized in.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest is returned for manifests that cannot be compiled.
var ErrInvalidManifest = errors.New("invalid route manifest")

// Manifest is a parsed route manifest.
type Manifest struct {
	Routes []RouteSpec `yaml:"routes"`
}

// RouteSpec declares one route.
type RouteSpec struct {
	Name  string  `yaml:"name"`
	Path  string  `yaml:"path"`
	Title string  `yaml:"title"`
	Args  ArgList `yaml:"args"`
}

// ArgSpec declares one argument.
type ArgSpec struct {
	Name     string `yaml:"-"`
	Source   string `yaml:"source"`
	Kind     string `yaml:"kind"`
	Default  any    `yaml:"default"`
	Required bool   `yaml:"required"`
	Enum     []any  `yaml:"enum"`
	Format   string `yaml:"format"`
}

// ArgList is a YAML mapping of argument names to specs that keeps its
// order.
type ArgList []ArgSpec

// UnmarshalYAML decodes the mapping pair by pair.
func (l *ArgList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: args must be a mapping", node.Line)
	}
	out := make(ArgList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var spec ArgSpec
		if err := value.Decode(&spec); err != nil {
			return fmt.Errorf("line %d: argument %q: %w", key.Line, key.Value, err)
		}
		spec.Name = key.Value
		out = append(out, spec)
	}
	*l = out
	return nil
}

// Parse parses a manifest. JSON manifests parse as well.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest without compiling it.
func (m *Manifest) Validate() error {
	names := make(map[string]bool, len(m.Routes))
	for i, r := range m.Routes {
		if r.Name == "" {
			return fmt.Errorf("%w: route %d has no name", ErrInvalidManifest, i)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: duplicate route name %q", ErrInvalidManifest, r.Name)
		}
		names[r.Name] = true
		if r.Path == "" {
			return fmt.Errorf("%w: route %q has no path", ErrInvalidManifest, r.Name)
		}
		for _, a := range r.Args {
			if a.Required && a.Default != nil {
				return fmt.Errorf("%w: route %q: argument %q is required and has a default", ErrInvalidManifest, r.Name, a.Name)
			}
			if _, ok := formats[a.Format]; !ok {
				return fmt.Errorf("%w: route %q: argument %q: unknown format %q", ErrInvalidManifest, r.Name, a.Name, a.Format)
			}
		}
	}
	return nil
}

// Lookup returns the spec of the named route.
func (m *Manifest) Lookup(name string) (RouteSpec, bool) {
	for _, r := range m.Routes {
		if r.Name == name {
			return r, true
		}
	}
	return RouteSpec{}, false
}
