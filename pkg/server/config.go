package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// SessionConfig configures individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a frame from the client.
	// Heartbeat pongs reset it.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the deadline of a single frame write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the interval between ping frames.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the largest frame accepted from the client.
	// Default: 64KB.
	MaxMessageSize int64
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ServerConfig configures the HTTP server and its live sessions.
type ServerConfig struct {
	// Address is the TCP address to listen on.
	// Default: ":8080".
	Address string

	// WebSocketPath is where live sessions connect.
	// Default: "/_live".
	WebSocketPath string

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 4096.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 4096.
	WriteBufferSize int

	// CheckOrigin validates the Origin header of upgrade requests.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// SessionConfig is applied to every session.
	SessionConfig *SessionConfig

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// DisableLiveClient stops the server from serving the live client
	// script and adding it to rendered pages.
	DisableLiveClient bool

	// HTTPMiddleware wraps every HTTP endpoint of the server, page renders
	// and the WebSocket upgrade alike.
	HTTPMiddleware []func(http.Handler) http.Handler

	// OnSessionStart is called after a session is registered.
	OnSessionStart func(*Session)

	// OnSessionEnd is called after a session is removed.
	OnSessionEnd func(*Session)

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		WebSocketPath:     "/_live",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       SameOriginCheck,
		SessionConfig:     DefaultSessionConfig(),
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host equals the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

// Clone returns a copy of the ServerConfig.
func (c *ServerConfig) Clone() *ServerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.HTTPMiddleware = append([]func(http.Handler) http.Handler(nil), c.HTTPMiddleware...)
	if c.SessionConfig != nil {
		clone.SessionConfig = c.SessionConfig.Clone()
	}
	return &clone
}

// WithAddress sets the listen address and returns the config for chaining.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// WithWebSocketPath sets the live session path and returns the config for chaining.
func (c *ServerConfig) WithWebSocketPath(path string) *ServerConfig {
	c.WebSocketPath = path
	return c
}

// WithSessionConfig sets the session configuration and returns the config for chaining.
func (c *ServerConfig) WithSessionConfig(sc *SessionConfig) *ServerConfig {
	c.SessionConfig = sc
	return c
}

// WithMaxSessions sets the maximum sessions and returns the config for chaining.
func (c *ServerConfig) WithMaxSessions(max int) *ServerConfig {
	c.MaxSessions = max
	return c
}
