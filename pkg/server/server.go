package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/typedroute/client"
	"github.com/vango-dev/typedroute/pkg/router"
)

// Server serves a route table: full page renders over HTTP and live
// sessions over a WebSocket endpoint.
type Server struct {
	config     *ServerConfig
	mux        *chi.Mux
	table      *router.Table
	sessions   *SessionManager
	upgrader   websocket.Upgrader
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a server for the given routes. Missing config fields get
// their defaults.
func New(config *ServerConfig, routes ...router.Handler) (*Server, error) {
	if config == nil {
		config = DefaultServerConfig()
	} else {
		config = config.Clone()
	}
	defaults := DefaultServerConfig()
	if config.Address == "" {
		config.Address = defaults.Address
	}
	if config.WebSocketPath == "" {
		config.WebSocketPath = defaults.WebSocketPath
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = defaults.ReadBufferSize
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = defaults.WriteBufferSize
	}
	if config.CheckOrigin == nil {
		config.CheckOrigin = defaults.CheckOrigin
	}
	if config.SessionConfig == nil {
		config.SessionConfig = defaults.SessionConfig
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	base := config.Logger
	if base == nil {
		base = slog.Default()
	}
	logger := base.With("component", "server")

	mux := chi.NewRouter()
	mux.Use(config.HTTPMiddleware...)
	table, err := router.Mount(mux, routes...)
	if err != nil {
		return nil, err
	}
	table.SetLogger(base.With("component", "router"))

	s := &Server{
		config:   config,
		mux:      mux,
		table:    table,
		sessions: NewSessionManager(config.SessionConfig, config.MaxSessions, base),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}
	s.sessions.SetOnSessionStart(config.OnSessionStart)
	s.sessions.SetOnSessionEnd(config.OnSessionEnd)
	mux.Get(config.WebSocketPath, s.HandleWebSocket)
	if !config.DisableLiveClient {
		script := client.Path(config.WebSocketPath)
		mux.Method(http.MethodGet, script, client.Handler())
		table.SetShell(router.ShellWithScripts(script))
	}
	return s, nil
}

// Use appends middleware to every route render, HTTP and live.
func (s *Server) Use(mw ...router.Middleware) {
	s.table.Use(mw...)
}

// Table returns the route table.
func (s *Server) Table() *router.Table {
	return s.table
}

// Mux returns the chi router, for mounting extra endpoints.
func (s *Server) Mux() chi.Router {
	return s.mux
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// HandleWebSocket upgrades the request and runs a session until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess, err := s.sessions.Create(conn, s.table)
	if err != nil {
		s.logger.Warn("session rejected", "error", err)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(s.config.SessionConfig.WriteTimeout),
		)
		conn.Close()
		return
	}

	if err := sess.Start(); err != nil {
		sess.Logger().Error("handshake failed", "error", err)
		sess.Close()
		return
	}
	sess.ReadLoop()
}

// Run listens on the configured address until SIGINT or SIGTERM, then
// shuts down gracefully.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.mux,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address, "routes", len(s.table.Routes()))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all sessions and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the effective configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger replaces the server and router loggers.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger.With("component", "server")
	s.table.SetLogger(logger.With("component", "router"))
}
