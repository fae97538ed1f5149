package server

import (
	"errors"

	"github.com/vango-dev/typedroute/pkg/args"
	"github.com/vango-dev/typedroute/pkg/protocol"
	"github.com/vango-dev/typedroute/pkg/router"
	"github.com/vango-dev/typedroute/pkg/routepath"
)

// Sentinel errors for session and server conditions.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrMaxSessionsReached is returned when the session limit is reached.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrNoConnection is returned when a session has no connection to write to.
	ErrNoConnection = errors.New("server: no connection")
)

// errorCode maps a render or navigation error to a protocol error code.
func errorCode(err error) protocol.ErrorCode {
	var (
		fe *args.FieldError
		em *protocol.ErrorMessage
	)
	switch {
	case errors.As(err, &em):
		return em.Code
	case errors.As(err, &fe):
		return protocol.ErrInvalidArgs
	case errors.Is(err, router.ErrNotFound), errors.Is(err, routepath.ErrNoMatch):
		return protocol.ErrRouteNotFound
	case errors.Is(err, routepath.ErrInvalidPath),
		errors.Is(err, routepath.ErrBackslashInPath),
		errors.Is(err, routepath.ErrNullByteInPath),
		errors.Is(err, routepath.ErrInvalidPercentEscape),
		errors.Is(err, routepath.ErrPathEscapesRoot),
		errors.Is(err, protocol.ErrHrefTooLong),
		errors.Is(err, protocol.ErrInvalidLocation):
		return protocol.ErrInvalidPath
	case errors.Is(err, protocol.ErrUnknownFrameType), errors.Is(err, protocol.ErrMissingPayload):
		return protocol.ErrInvalidFrame
	}
	return protocol.ErrRenderFailed
}

// errorMessage is the client-facing text of err. Argument errors carry
// their coded form.
func errorMessage(err error) string {
	var (
		fe *args.FieldError
		em *protocol.ErrorMessage
	)
	if errors.As(err, &em) {
		return em.Message
	}
	if errors.As(err, &fe) {
		return fe.Coded().FormatCompact()
	}
	return err.Error()
}
