package server

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/typedroute/pkg/protocol"
	"github.com/vango-dev/typedroute/pkg/router"
)

// Start announces the session to the client and runs the write loop in the
// background. The caller runs ReadLoop.
func (s *Session) Start() error {
	if err := s.send(protocol.FrameHandshake, protocol.Handshake{
		SessionID: s.ID,
		Version:   protocol.Version,
	}); err != nil {
		return err
	}
	go s.WriteLoop()
	return nil
}

// ReadLoop reads frames from the connection and dispatches them. It blocks
// until the connection fails or the session closes, and closes the session
// on return.
func (s *Session) ReadLoop() {
	defer s.Close()

	if s.config.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.config.MaxMessageSize)
	}
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		s.UpdateLastActive()
		s.bytesRecv.Add(uint64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.sendError(err)
			continue
		}

		switch frame.Type {
		case protocol.FrameLocation:
			s.handleLocationFrame(frame)

		case protocol.FrameNavigate:
			s.handleNavigateFrame(frame)

		case protocol.FramePing:
			if err := s.send(protocol.FramePong, nil); err != nil {
				s.logger.Debug("pong not sent", "error", err)
			}

		case protocol.FramePong:
			// Activity already recorded.

		default:
			s.sendError(fmt.Errorf("%w: %s is server-only", protocol.ErrUnknownFrameType, frame.Type))
		}
	}
}

// handleLocationFrame records the location the client moved to and renders it.
func (s *Session) handleLocationFrame(frame *protocol.Frame) {
	var loc protocol.Location
	if err := frame.Decode(&loc); err != nil {
		s.sendError(err)
		return
	}
	if err := loc.Validate(); err != nil {
		s.sendError(err)
		return
	}

	href := loc.Href()
	s.navMu.Lock()
	defer s.navMu.Unlock()

	s.setLocation(router.Entry{Path: href, State: loc.State})
	if err := s.render(href, loc.State, router.TriggerLocation); err != nil {
		s.logger.Debug("location not rendered", "href", href, "error", err)
	}
}

// handleNavigateFrame performs a navigation the client asked for. A named
// route takes precedence over a raw URL.
func (s *Session) handleNavigateFrame(frame *protocol.Frame) {
	var nav protocol.Navigate
	if err := frame.Decode(&nav); err != nil {
		s.sendError(err)
		return
	}
	mode, err := router.ParseMode(nav.Mode)
	if err != nil {
		s.sendError(protocol.NewError(protocol.ErrInvalidFrame, err.Error()))
		return
	}

	path, state := nav.URL, nav.State
	if nav.Route != "" {
		h, ok := s.table.Lookup(nav.Route)
		if !ok {
			s.sendError(fmt.Errorf("%w: %s", router.ErrNotFound, nav.Route))
			return
		}
		target, err := h.TargetOf(nav.Args)
		if err != nil {
			s.sendError(err)
			return
		}
		path = target.Path
		if target.State != nil {
			state = target.State
		}
	}
	if path == "" {
		s.sendError(fmt.Errorf("%w for navigate frame", protocol.ErrMissingPayload))
		return
	}

	// Render failures already reached the client as error frames.
	if err := router.Navigate(s, mode, path, state); err != nil {
		s.logger.Debug("navigate failed", "href", path, "error", err)
		if errorCode(err) == protocol.ErrInvalidPath {
			s.sendError(err)
		}
	}
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	if s.config.HeartbeatInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.sendPing(); err != nil {
				s.logger.Debug("heartbeat stopped", "error", err)
				s.Close()
				return
			}
		}
	}
}
