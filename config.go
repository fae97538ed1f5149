package typedroute

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/vango-dev/typedroute/pkg/server"
)

// ServerConfig converts the server section of cfg.
func ServerConfig(cfg *Config) *server.ServerConfig {
	sc := server.DefaultServerConfig()
	sc.Address = cfg.Server.Address
	sc.WebSocketPath = cfg.Server.WebSocketPath
	sc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	sc.MaxSessions = cfg.Server.MaxSessions
	sc.CheckOrigin = OriginCheck(cfg.Server.AllowedOrigins)
	sc.SessionConfig = &server.SessionConfig{
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		HeartbeatInterval: cfg.Server.HeartbeatInterval,
		MaxMessageSize:    cfg.Server.MaxMessageSize,
	}
	return sc
}

// OriginCheck returns a WebSocket origin check. Same-origin requests are
// always accepted; allowed lists additional hosts and "*" accepts any
// origin.
func OriginCheck(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return server.SameOriginCheck
	}
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		if server.SameOriginCheck(r) {
			return true
		}
		u, err := url.Parse(r.Header.Get("Origin"))
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Host)
	}
}
