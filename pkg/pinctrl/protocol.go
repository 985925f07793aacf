package pinctrl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// DefaultMaxPayloadSize is the response payload capacity assumed for a
// channel that does not report one.
const DefaultMaxPayloadSize = 128

// Dispatcher errors. They are internal faults and are never sent to agents.
var (
	ErrAgentResolution = errors.New("cannot resolve calling agent")
	ErrAgentOutOfRange = errors.New("agent id out of range")
	ErrRespond         = errors.New("failed to send response")
)

// Channel is the transport a message arrived on. Each message is answered
// through the channel exactly once.
type Channel interface {
	// AgentID returns the agent bound to the channel.
	AgentID() (uint32, error)

	// MaxPayloadSize returns the largest response payload the channel
	// carries, status word included.
	MaxPayloadSize() int

	// Respond sends the response payload.
	Respond(payload []byte) error
}

// Traced is implemented by channels that can attribute protocol log
// events to a connection and a message token.
type Traced interface {
	ConnectionID() string
	Token() uint16
}

// Roles answers whether an agent holds the platform role needed to change
// permissions.
type Roles interface {
	IsPrivileged(agent uint32) bool
}

// RolesFunc adapts a function to Roles.
type RolesFunc func(agent uint32) bool

// IsPrivileged calls f(agent).
func (f RolesFunc) IsPrivileged(agent uint32) bool {
	return f(agent)
}

// NoPrivileges grants no agent the platform role.
var NoPrivileges Roles = RolesFunc(func(uint32) bool { return false })

// call is the context a handler runs with.
type call struct {
	agent    uint32
	payload  []byte
	capacity int
}

type handlerFunc func(p *Protocol, c call) wire.Response

// command describes one supported message. Messages with a variable
// payload set sizeOf instead of size.
type command struct {
	size    int
	sizeOf  func(payload []byte) (int, bool)
	handler handlerFunc
}

func (c command) expectedSize(payload []byte) (int, bool) {
	if c.sizeOf != nil {
		return c.sizeOf(payload)
	}
	return c.size, true
}

// commands is filled by init; handlers look it up.
var commands map[wire.MessageID]command

func init() {
	commands = map[wire.MessageID]command{
		wire.MsgProtocolVersion:    {size: wire.SizeNoPayload, handler: (*Protocol).protocolVersion},
		wire.MsgProtocolAttributes: {size: wire.SizeNoPayload, handler: (*Protocol).protocolAttributes},
		wire.MsgMessageAttributes:  {size: wire.SizeMessageAttributes, handler: (*Protocol).messageAttributes},
		wire.MsgAttributes:         {size: wire.SizeResourceRequest, handler: (*Protocol).attributes},
		wire.MsgListAssociations:   {size: wire.SizeListAssociations, handler: (*Protocol).listAssociations},
		wire.MsgSettingsGet:        {size: wire.SizeSettingsGet, handler: (*Protocol).settingsGet},
		wire.MsgSettingsConfigure:  {sizeOf: wire.SettingsConfigureSize, handler: (*Protocol).settingsConfigure},
		wire.MsgRequest:            {size: wire.SizeResourceRequest, handler: (*Protocol).request},
		wire.MsgRelease:            {size: wire.SizeResourceRequest, handler: (*Protocol).release},
		wire.MsgNameGet:            {size: wire.SizeResourceRequest, handler: (*Protocol).nameGet},
		wire.MsgSetPermissions:     {size: wire.SizeSetPermissions, handler: (*Protocol).setPermissions},
		wire.MsgNegotiateVersion:   {size: wire.SizeNegotiateVersion, handler: (*Protocol).negotiateVersion},
	}
}

// Supported reports whether the protocol answers a message id.
func Supported(id wire.MessageID) bool {
	_, ok := commands[id]
	return ok
}

// Protocol answers pin control messages against a shared ownership table.
// It is safe for concurrent use.
type Protocol struct {
	table   *ownership.Table
	catalog *catalog.Catalog
	roles   Roles

	mu          sync.RWMutex
	logger      *slog.Logger
	protocolLog log.Logger
}

// New creates a protocol over table. roles decides who may change
// permissions; nil grants nobody that right.
func New(table *ownership.Table, roles Roles) *Protocol {
	if roles == nil {
		roles = NoPrivileges
	}
	return &Protocol{
		table:       table,
		catalog:     table.Catalog(),
		roles:       roles,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		protocolLog: log.NoopLogger{},
	}
}

// Table returns the ownership table the protocol serves.
func (p *Protocol) Table() *ownership.Table {
	return p.table
}

// SetLogger sets the operational logger.
func (p *Protocol) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = l
}

// SetProtocolLogger sets the logger receiving one event per handled message.
func (p *Protocol) SetProtocolLogger(l log.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.protocolLog = log.OrNoop(l)
}

func (p *Protocol) loggers() (*slog.Logger, log.Logger) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger, p.protocolLog
}

// HandleMessage dispatches one message received on ch and sends its
// response. Unknown ids are answered with StatusNotFound and payloads of
// the wrong size with StatusProtocolError, before the agent is resolved.
// An error is returned only when the message could not be answered.
func (p *Protocol) HandleMessage(ch Channel, id wire.MessageID, payload []byte) error {
	start := time.Now()

	cmd, ok := commands[id]
	if !ok {
		return p.respond(ch, id, nil, payload, wire.StatusResponse{Status: wire.StatusNotFound}, start)
	}
	if want, ok := cmd.expectedSize(payload); !ok || want != len(payload) {
		return p.respond(ch, id, nil, payload, wire.StatusResponse{Status: wire.StatusProtocolError}, start)
	}

	agent, err := ch.AgentID()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAgentResolution, err)
	}
	if int64(agent) >= int64(p.table.AgentCount()) {
		return fmt.Errorf("%w: %d", ErrAgentOutOfRange, agent)
	}

	capacity := ch.MaxPayloadSize()
	if capacity <= 0 {
		capacity = DefaultMaxPayloadSize
	}

	resp := cmd.handler(p, call{agent: agent, payload: payload, capacity: capacity})
	return p.respond(ch, id, &agent, payload, resp, start)
}

func (p *Protocol) respond(ch Channel, id wire.MessageID, agent *uint32, payload []byte, resp wire.Response, start time.Time) error {
	out, err := resp.MarshalBinary()
	if err != nil {
		// Every response type encodes a bare status.
		out, _ = wire.StatusResponse{Status: wire.StatusGenericError}.MarshalBinary()
		resp = wire.StatusResponse{Status: wire.StatusGenericError}
	}
	sendErr := ch.Respond(out)

	status := resp.ResponseStatus()
	elapsed := time.Since(start)
	logger, plog := p.loggers()

	event := log.Event{
		Timestamp: start,
		Direction: log.DirectionOut,
		Layer:     log.LayerProtocol,
		Category:  log.CategoryMessage,
		AgentID:   agent,
		Message: &log.MessageEvent{
			MessageID:      id,
			PayloadSize:    len(payload),
			Status:         &status,
			ResponseSize:   len(out),
			ProcessingTime: &elapsed,
		},
	}
	if tr, ok := ch.(Traced); ok {
		event.ConnectionID = tr.ConnectionID()
		event.Message.Token = tr.Token()
	}
	plog.Log(event)

	attrs := []any{"message", id, "status", status, "elapsed", elapsed}
	if agent != nil {
		attrs = append(attrs, "agent", *agent)
	}
	logger.Debug("pinctrl: message handled", attrs...)

	if sendErr != nil {
		logger.Warn("pinctrl: respond failed", "message", id, "error", sendErr)
		return fmt.Errorf("%w: %w", ErrRespond, sendErr)
	}
	return nil
}
