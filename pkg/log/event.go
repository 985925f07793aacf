package log

import (
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Event is one protocol log record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the transport connection (UUID).
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// AgentID is the agent the event concerns, if known.
	AgentID *uint32 `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Ownership   *OwnershipEvent   `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Agent returns a pointer suitable for Event.AgentID.
func Agent(id uint32) *uint32 {
	return &id
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
	// DirectionNone is used for events that are not messages.
	DirectionNone Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionNone:
		return "-"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which part of the responder captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer.
	LayerTransport Layer = 0
	// LayerProtocol is the message dispatcher.
	LayerProtocol Layer = 1
	// LayerService is the responder service.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage is a command or response.
	CategoryMessage Category = 0
	// CategoryOwnership is an owner change of a pin or group.
	CategoryOwnership Category = 1
	// CategoryState is a connection or agent state change.
	CategoryState Category = 2
	// CategoryError is an internal error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryOwnership:
		return "OWNERSHIP"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a raw frame at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (excluding the length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures one dispatched command and its response.
type MessageEvent struct {
	MessageID wire.MessageID `cbor:"1,keyasint"`
	Token     uint16         `cbor:"2,keyasint"`

	// PayloadSize is the size of the command payload.
	PayloadSize int `cbor:"3,keyasint"`

	// Status is the response status (responses only).
	Status *wire.Status `cbor:"4,keyasint,omitempty"`

	// ResponseSize is the size of the response payload (responses only).
	ResponseSize int `cbor:"5,keyasint,omitempty"`

	// ProcessingTime is the duration from receipt to response.
	ProcessingTime *time.Duration `cbor:"6,keyasint,omitempty"`
}

// OwnershipEvent captures an owner change of a pin or group.
type OwnershipEvent struct {
	Selector   wire.Selector `cbor:"1,keyasint"`
	ResourceID uint16        `cbor:"2,keyasint"`

	// Kind is acquired, released, revoked or reset.
	Kind string `cbor:"3,keyasint"`
}

// StateChangeEvent captures connection and agent lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	StateEntityConnection StateEntity = 0
	StateEntityAgent      StateEntity = 1
	StateEntityResponder  StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityAgent:
		return "AGENT"
	case StateEntityResponder:
		return "RESPONDER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures internal errors.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
