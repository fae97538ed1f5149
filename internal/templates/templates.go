package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/vango-dev/typedroute/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is used in page titles.
	ProjectName string

	// Address is the listen address written to typedroute.yaml.
	Address string
}

// Template represents a project template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E181").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: full, minimal")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns the relative paths the template writes, sorted.
func (t *Template) Paths() []string {
	paths := make([]string, 0, len(t.Files))
	for p := range t.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Create writes the template into dir. Existing files are never
// overwritten; nothing is written if any target exists.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.ProjectName == "" {
		cfg.ProjectName = filepath.Base(dir)
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}

	rendered := make(map[string][]byte, len(t.Files))
	for _, relPath := range t.Paths() {
		fullPath := filepath.Join(dir, relPath)
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("E182").
				WithDetail(fullPath + " already exists.").
				WithSuggestion("Remove it or run init in another directory")
		}

		tmpl, err := template.New(relPath).Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}
		rendered[relPath] = buf.Bytes()
	}

	for relPath, content := range rendered {
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			return err
		}
	}
	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A config and a manifest with a single route",
		Files: map[string]string{
			"typedroute.yaml": `server:
  address: "{{.Address}}"
manifest: routes.yaml
`,
			"routes.yaml": `routes:
  - name: home
    path: /
    title: {{.ProjectName}}
`,
		},
	}
}

func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Routes using every argument source, with metrics and tracing",
		Files: map[string]string{
			"typedroute.yaml": `server:
  address: "{{.Address}}"
  websocket_path: /_live
  read_timeout: 60s
  write_timeout: 10s
  heartbeat_interval: 30s
  max_sessions: 1000
metrics:
  enabled: true
  path: /metrics
tracing:
  enabled: true
manifest: routes.yaml
`,
			"routes.yaml": `routes:
  - name: home
    path: /
    title: {{.ProjectName}}

  - name: user
    path: /users/:id
    title: User
    args:
      id:   {source: path, kind: number, format: int}
      tab:  {source: query, kind: string, default: overview, enum: [overview, posts, likes]}
      page: {source: query, kind: number}
      from: {source: state, kind: passthrough}

  - name: doc
    path: /docs/:doc
    title: Document
    args:
      doc:     {source: path, kind: string, format: uuid, required: true}
      filter:  {source: query, kind: json}
      section: {source: hash, kind: string}

  - name: files
    path: /files/*path
    title: Files
    args:
      path: {source: path, kind: string}
      raw:  {source: query, kind: boolean, default: false}
`,
		},
	}
}
