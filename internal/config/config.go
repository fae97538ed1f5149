package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/typedroute/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "typedroute.yaml"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultWebSocketPath is where live sessions connect by default.
	DefaultWebSocketPath = "/_live"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the default metrics namespace and tracer name.
	DefaultNamespace = "typedroute"

	// DefaultManifest is the default route manifest file.
	DefaultManifest = "routes.yaml"
)

// Config represents the complete typedroute.yaml configuration.
type Config struct {
	// Server contains HTTP and live session settings.
	Server ServerConfig `yaml:"server"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`

	// Manifest is the path of the route manifest, relative to the config file.
	Manifest string `yaml:"manifest,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains server settings. Durations use Go syntax ("30s").
type ServerConfig struct {
	Address           string        `yaml:"address,omitempty"`
	WebSocketPath     string        `yaml:"websocket_path,omitempty"`
	ReadTimeout       time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout      time.Duration `yaml:"write_timeout,omitempty"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval,omitempty"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout,omitempty"`
	MaxSessions       int           `yaml:"max_sessions,omitempty"`
	MaxMessageSize    int64         `yaml:"max_message_size,omitempty"`

	// AllowedOrigins lists the hosts live sessions may connect from.
	// Empty means same origin only; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings. Spans go to the global
// tracer provider.
type TracingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TracerName string `yaml:"tracer_name,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads typedroute.yaml from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads a configuration file. JSON files parse as well. A missing
// file is reported with an error wrapping fs.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E160").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run with defaults").
				Wrap(err)
		}
		return nil, errors.New("E160").Wrap(err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E160").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the config to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E160").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E160").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory of the config file, or "".
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// ManifestPath resolves the manifest path against the config directory.
func (c *Config) ManifestPath() string {
	if c.Manifest == "" || filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.Dir(), c.Manifest)
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.WebSocketPath == "" {
		c.Server.WebSocketPath = DefaultWebSocketPath
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.HeartbeatInterval == 0 {
		c.Server.HeartbeatInterval = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 64 * 1024
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E160").WithDetail(fmt.Sprintf(format, args...))
	}
	if !strings.HasPrefix(c.Server.WebSocketPath, "/") {
		return invalid("server.websocket_path %q must start with /", c.Server.WebSocketPath)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path %q must start with /", c.Metrics.Path)
	}
	if c.Metrics.Enabled && c.Metrics.Path == c.Server.WebSocketPath {
		return invalid("metrics.path and server.websocket_path are both %q", c.Metrics.Path)
	}
	if c.Server.MaxSessions < 0 {
		return invalid("server.max_sessions must not be negative")
	}
	for name, d := range map[string]time.Duration{
		"read_timeout":       c.Server.ReadTimeout,
		"write_timeout":      c.Server.WriteTimeout,
		"heartbeat_interval": c.Server.HeartbeatInterval,
		"shutdown_timeout":   c.Server.ShutdownTimeout,
	} {
		if d < 0 {
			return invalid("server.%s must not be negative", name)
		}
	}
	return nil
}
