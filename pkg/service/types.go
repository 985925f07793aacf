package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrUnknownChannel = errors.New("no channel for agent")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateStarting - service is starting up.
	StateStarting

	// StateRunning - service is running normally.
	StateRunning

	// StateStopping - service is shutting down.
	StateStopping

	// StateStopped - service has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ChannelConfig binds a listener to one agent.
type ChannelConfig struct {
	// AgentID is the agent every connection on this channel speaks for.
	AgentID uint32

	// Network is "tcp", "tcp4", "tcp6" or "unix".
	Network string

	// Address to listen on.
	Address string

	// MaxPayloadSize bounds response payloads, status word included.
	// Zero uses pinctrl.DefaultMaxPayloadSize.
	MaxPayloadSize int
}

func (c ChannelConfig) network() string {
	if c.Network == "" {
		return "tcp"
	}
	return c.Network
}

// Config configures a Responder.
type Config struct {
	// Name identifies the responder in mDNS instance names.
	Name string

	// Channels lists one listener per agent. An agent may have several.
	Channels []ChannelConfig

	// MaxFrameSize bounds transport frames (default 64 KB).
	MaxFrameSize uint32

	// ReleaseOnDisconnect releases everything an agent owns when its last
	// connection closes.
	ReleaseOnDisconnect bool

	// Advertise publishes TCP channels over mDNS.
	Advertise bool

	// Interface restricts mDNS to one network interface.
	Interface string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives message, ownership and state events.
	ProtocolLogger log.Logger
}

// DefaultConfig returns a configuration with no channels.
func DefaultConfig() Config {
	return Config{
		Name:         "pinctrl",
		MaxFrameSize: transport.DefaultMaxFrameSize,
	}
}

// Validate checks the configuration against the number of agents.
func (c *Config) Validate(agents int) error {
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Channels))
	for i, ch := range c.Channels {
		if int64(ch.AgentID) >= int64(agents) {
			return fmt.Errorf("%w: channel %d: agent %d out of range (%d agents)", ErrInvalidConfig, i, ch.AgentID, agents)
		}
		if ch.Address == "" {
			return fmt.Errorf("%w: channel %d: empty address", ErrInvalidConfig, i)
		}
		switch ch.network() {
		case "tcp", "tcp4", "tcp6", "unix":
		default:
			return fmt.Errorf("%w: channel %d: network %q", ErrInvalidConfig, i, ch.Network)
		}
		if ch.MaxPayloadSize < 0 {
			return fmt.Errorf("%w: channel %d: negative max payload", ErrInvalidConfig, i)
		}
		// Port 0 asks for an ephemeral port and may repeat.
		key := ch.network() + "|" + ch.Address
		if seen[key] && !strings.HasSuffix(ch.Address, ":0") {
			return fmt.Errorf("%w: channel %d: duplicate address %s", ErrInvalidConfig, i, ch.Address)
		}
		seen[key] = true
	}
	return nil
}

// EventType identifies a responder event.
type EventType uint8

const (
	// EventConnected - an agent's first connection opened.
	EventConnected EventType = iota

	// EventDisconnected - an agent's last connection closed.
	EventDisconnected

	// EventOwnershipChanged - a pin or group changed owner.
	EventOwnershipChanged

	// EventResourcesReleased - a disconnect released an agent's resources.
	EventResourcesReleased
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventConnected:
		return "CONNECTED"
	case EventDisconnected:
		return "DISCONNECTED"
	case EventOwnershipChanged:
		return "OWNERSHIP_CHANGED"
	case EventResourcesReleased:
		return "RESOURCES_RELEASED"
	default:
		return "UNKNOWN"
	}
}

// Event represents a responder event.
type Event struct {
	Type EventType

	// AgentID is the agent the event concerns.
	AgentID uint32

	// Transition is set for EventOwnershipChanged.
	Transition *ownership.Transition

	// Released counts resources released by EventResourcesReleased.
	Released int
}

// EventHandler handles responder events.
type EventHandler func(Event)
