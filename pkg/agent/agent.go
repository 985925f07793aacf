// Package agent tracks the agents that talk to the pin control responder.
//
// Agents are identified by dense ids [0, N). The transport channel a
// message arrives on determines the agent; ids are never taken from
// message payloads.
package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/permission"
)

// Agent errors.
var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrAgentExists    = errors.New("agent already exists")
	ErrTooManyAgents  = errors.New("too many agents")
	ErrInvalidAgentID = errors.New("agent ids must be dense and start at 0")
	ErrNotConnected   = errors.New("agent not connected")
)

// MaxAgents is the maximum number of agents.
const MaxAgents = permission.MaxAgents

// Agent is one protocol client.
type Agent struct {
	// ID is the agent's index into every permission mask.
	ID uint32

	// Name is a display name such as "psci" or "ospm".
	Name string

	// Privileged agents may change permission masks.
	Privileged bool

	// Connections is the number of open transport connections.
	Connections int

	// LastSeen is when the agent last sent a message.
	LastSeen time.Time
}

// Connected returns true if the agent has at least one open connection.
func (a *Agent) Connected() bool {
	return a.Connections > 0
}

// String returns "name(id)".
func (a *Agent) String() string {
	return fmt.Sprintf("%s(%d)", a.Name, a.ID)
}
