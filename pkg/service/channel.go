package service

import (
	"errors"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/agent"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/pinctrl"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// ErrAlreadyResponded is returned by a second Respond on one message.
var ErrAlreadyResponded = errors.New("message already answered")

// sender is the part of a transport connection a message channel needs.
type sender interface {
	ConnID() string
	Send(data []byte) error
}

// messageChannel answers one command. The response reuses the command's
// header so the agent can match it by token.
type messageChannel struct {
	agentID    uint32
	registry   *agent.Registry
	header     wire.Header
	conn       sender
	maxPayload int
	responded  bool
}

var (
	_ pinctrl.Channel = (*messageChannel)(nil)
	_ pinctrl.Traced  = (*messageChannel)(nil)
	_ sender          = (*transport.ServerConn)(nil)
)

func (c *messageChannel) AgentID() (uint32, error) {
	if !c.registry.Has(c.agentID) {
		return 0, agent.ErrAgentNotFound
	}
	return c.agentID, nil
}

func (c *messageChannel) MaxPayloadSize() int {
	return c.maxPayload
}

func (c *messageChannel) Respond(payload []byte) error {
	if c.responded {
		return ErrAlreadyResponded
	}
	c.responded = true
	return c.conn.Send(wire.EncodeMessage(c.header, payload))
}

func (c *messageChannel) ConnectionID() string {
	return c.conn.ConnID()
}

func (c *messageChannel) Token() uint16 {
	return c.header.Token
}
