package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/typedroute/pkg/protocol"
	"github.com/vango-dev/typedroute/pkg/router"
	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Session is one live connection. It owns the current location of the
// client and implements router.History.
type Session struct {
	// ID is the session identifier announced in the handshake.
	ID string

	conn   *websocket.Conn
	table  *router.Table
	config *SessionConfig
	logger *slog.Logger

	// mu serializes writes to conn.
	mu  sync.Mutex
	seq uint64

	// navMu serializes location changes and the renders they trigger.
	navMu    sync.Mutex
	locMu    sync.RWMutex
	location router.Entry

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
	done   chan struct{}

	onClose func(*Session)

	CreatedAt     time.Time
	lastActive    atomic.Int64
	renderCount   atomic.Uint64
	navigations   atomic.Uint64
	bytesRecv     atomic.Uint64
	framesWritten atomic.Uint64
}

func newSession(id string, conn *websocket.Conn, table *router.Table, config *SessionConfig, logger *slog.Logger) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	s := &Session{
		ID:        id,
		conn:      conn,
		table:     table,
		config:    config,
		logger:    logger.With("session_id", id),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		CreatedAt: now,
	}
	s.lastActive.Store(now.UnixNano())
	return s
}

// Push implements router.History. The client is told to push the href,
// then the target is rendered.
func (s *Session) Push(path string, state map[string]any) error {
	return s.navigate(router.ModePush, path, state)
}

// Replace implements router.History.
func (s *Session) Replace(path string, state map[string]any) error {
	return s.navigate(router.ModeReplace, path, state)
}

func (s *Session) navigate(mode router.Mode, path string, state map[string]any) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	href, err := routepath.ValidateNavTarget(path)
	if err != nil {
		return err
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()

	if err := s.send(protocol.FrameNavigate, protocol.Navigate{
		URL:   href,
		Mode:  mode.String(),
		State: state,
	}); err != nil {
		return err
	}
	s.setLocation(router.Entry{Path: href, State: state})
	s.navigations.Add(1)
	s.logger.Debug("navigate", "href", href, "mode", mode)
	return s.render(href, state, router.TriggerNavigate)
}

// Location returns the current location of the client.
func (s *Session) Location() router.Entry {
	s.locMu.RLock()
	defer s.locMu.RUnlock()
	return s.location
}

func (s *Session) setLocation(e router.Entry) {
	s.locMu.Lock()
	s.location = e
	s.locMu.Unlock()
}

// render resolves href, renders the route and sends a render frame. Render
// failures are reported to the client with an error frame and returned.
func (s *Session) render(href string, state map[string]any, trigger router.Trigger) error {
	h, snap, err := s.table.Snapshot(href, state)
	if err != nil {
		s.sendError(err)
		return err
	}
	comp, err := s.table.Render(s.ctx, h, snap, trigger)
	if err != nil {
		s.sendError(err)
		return fmt.Errorf("render %s: %w", h.Name(), err)
	}
	s.renderCount.Add(1)
	return s.send(protocol.FrameRender, protocol.Render{
		Route: h.Name(),
		Path:  href,
		Title: h.Title(),
		HTML:  router.HTML(comp),
	})
}

// send writes one frame to the connection.
func (s *Session) send(ft protocol.FrameType, payload any) error {
	frame, err := protocol.NewFrame(ft, payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}
	if s.conn == nil {
		return ErrNoConnection
	}

	s.seq++
	frame.Seq = s.seq
	data, err := frame.Encode()
	if err != nil {
		return err
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", ft, err)
	}
	s.framesWritten.Add(1)
	return nil
}

// sendError reports err to the client. Decode failures are logged at Warn,
// everything else at Error.
func (s *Session) sendError(err error) {
	code := errorCode(err)
	if code == protocol.ErrRenderFailed {
		s.logger.Error("render failed", "error", err)
	} else {
		s.logger.Warn("request rejected", "code", code, "error", err)
	}
	if werr := s.send(protocol.FrameError, protocol.NewError(code, errorMessage(err))); werr != nil {
		s.logger.Debug("error frame not sent", "error", werr)
	}
}

// sendPing sends a heartbeat ping to the client.
func (s *Session) sendPing() error {
	return s.send(protocol.FramePing, nil)
}

// Close closes the session and its connection. It is safe to call more
// than once.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.cancel()
	close(s.done)

	s.mu.Lock()
	if s.conn != nil {
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	}
	s.mu.Unlock()

	if s.onClose != nil {
		s.onClose(s)
	}
	s.logger.Info("session closed",
		"renders", s.renderCount.Load(),
		"navigations", s.navigations.Load(),
		"frames_sent", s.framesWritten.Load(),
		"bytes_recv", s.bytesRecv.Load())
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Context is cancelled when the session closes. Renders run under it.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// UpdateLastActive records client activity.
func (s *Session) UpdateLastActive() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last client frame.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// SessionStats is a snapshot of session counters.
type SessionStats struct {
	ID          string
	Location    string
	CreatedAt   time.Time
	LastActive  time.Time
	Renders     uint64
	Navigations uint64
	FramesSent  uint64
	BytesRecv   uint64
}

// Stats returns the session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:          s.ID,
		Location:    s.Location().Path,
		CreatedAt:   s.CreatedAt,
		LastActive:  s.LastActive(),
		Renders:     s.renderCount.Load(),
		Navigations: s.navigations.Load(),
		FramesSent:  s.framesWritten.Load(),
		BytesRecv:   s.bytesRecv.Load(),
	}
}
