package protocol

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame too large")
	ErrUnknownFrameType = errors.New("protocol: unknown frame type")
	ErrMissingPayload   = errors.New("protocol: missing payload")
	ErrHrefTooLong      = errors.New("protocol: href too long")
	ErrInvalidLocation  = errors.New("protocol: invalid location")
)

// FrameType identifies the kind of frame.
type FrameType uint8

const (
	FrameHandshake FrameType = iota + 1
	FrameLocation
	FrameNavigate
	FrameRender
	FrameError
	FramePing
	FramePong
)

var frameNames = map[FrameType]string{
	FrameHandshake: "handshake",
	FrameLocation:  "location",
	FrameNavigate:  "navigate",
	FrameRender:    "render",
	FrameError:     "error",
	FramePing:      "ping",
	FramePong:      "pong",
}

// String returns the wire name of the frame type.
func (ft FrameType) String() string {
	if name, ok := frameNames[ft]; ok {
		return name
	}
	return fmt.Sprintf("FrameType(%d)", ft)
}

// MarshalText encodes the frame type as its wire name.
func (ft FrameType) MarshalText() ([]byte, error) {
	name, ok := frameNames[ft]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrameType, ft)
	}
	return []byte(name), nil
}

// UnmarshalText decodes a wire name.
func (ft *FrameType) UnmarshalText(b []byte) error {
	for t, name := range frameNames {
		if name == string(b) {
			*ft = t
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFrameType, b)
}

// Frame is the envelope of every message.
type Frame struct {
	Type    FrameType       `json:"type"`
	Seq     uint64          `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewFrame creates a frame with payload encoded as JSON. A nil payload
// leaves the frame without one.
func NewFrame(ft FrameType, payload any) (*Frame, error) {
	f := &Frame{Type: ft}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode %s payload: %w", ft, err)
		}
		f.Payload = b
	}
	return f, nil
}

// Encode returns the wire form of the frame.
func (f *Frame) Encode() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	return b, nil
}

// Decode decodes the payload into v.
func (f *Frame) Decode(v any) error {
	if len(f.Payload) == 0 || bytes.Equal(f.Payload, []byte("null")) {
		return fmt.Errorf("%w for %s frame", ErrMissingPayload, f.Type)
	}
	if err := json.Unmarshal(f.Payload, v); err != nil {
		return fmt.Errorf("protocol: decode %s payload: %w", f.Type, err)
	}
	return nil
}

// DecodeFrame parses the wire form of a frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		if errors.Is(err, ErrUnknownFrameType) {
			return nil, err
		}
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	if _, ok := frameNames[f.Type]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrameType, f.Type)
	}
	return &f, nil
}
