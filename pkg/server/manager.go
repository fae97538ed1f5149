package server

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/typedroute/pkg/router"
)

// SessionManager tracks all live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	config      *SessionConfig
	maxSessions int

	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64

	onSessionStart func(*Session)
	onSessionEnd   func(*Session)

	logger *slog.Logger
}

// NewSessionManager creates a manager. maxSessions of zero means unlimited.
func NewSessionManager(config *SessionConfig, maxSessions int, logger *slog.Logger) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		config:      config,
		maxSessions: maxSessions,
		logger:      logger.With("component", "session_manager"),
	}
}

// SetOnSessionStart sets the callback run after a session is registered.
func (sm *SessionManager) SetOnSessionStart(fn func(*Session)) {
	sm.mu.Lock()
	sm.onSessionStart = fn
	sm.mu.Unlock()
}

// SetOnSessionEnd sets the callback run after a session is removed.
func (sm *SessionManager) SetOnSessionEnd(fn func(*Session)) {
	sm.mu.Lock()
	sm.onSessionEnd = fn
	sm.mu.Unlock()
}

// Create registers a new session for conn. The session removes itself
// from the manager when it closes.
func (sm *SessionManager) Create(conn *websocket.Conn, table *router.Table) (*Session, error) {
	sm.mu.Lock()
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}

	id := uuid.NewString()
	sess := newSession(id, conn, table, sm.config, sm.logger)
	sess.onClose = sm.remove
	sm.sessions[id] = sess
	onStart := sm.onSessionStart
	sm.mu.Unlock()

	sm.totalCreated.Add(1)
	sm.logger.Debug("session created", "session_id", id)
	if onStart != nil {
		onStart(sess)
	}
	return sess, nil
}

// Get returns the session with the given ID.
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for every live session. fn must not create or close
// sessions.
func (sm *SessionManager) ForEach(fn func(*Session)) {
	sm.mu.RLock()
	list := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	sm.mu.RUnlock()

	for _, s := range list {
		fn(s)
	}
}

// Stats returns creation and close totals.
func (sm *SessionManager) Stats() (created, closed uint64) {
	return sm.totalCreated.Load(), sm.totalClosed.Load()
}

// Shutdown closes every session.
func (sm *SessionManager) Shutdown() {
	sm.mu.RLock()
	list := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	sm.mu.RUnlock()

	for _, s := range list {
		s.Close()
	}
	sm.logger.Info("sessions closed", "count", len(list))
}

func (sm *SessionManager) remove(s *Session) {
	sm.mu.Lock()
	_, ok := sm.sessions[s.ID]
	delete(sm.sessions, s.ID)
	onEnd := sm.onSessionEnd
	sm.mu.Unlock()

	if !ok {
		return
	}
	sm.totalClosed.Add(1)
	if onEnd != nil {
		onEnd(s)
	}
}
