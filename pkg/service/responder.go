package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/agent"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/pinctrl"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// Responder serves the pin control protocol on a set of agent channels.
type Responder struct {
	mu sync.RWMutex

	config   Config
	state    ServiceState
	registry *agent.Registry
	table    *ownership.Table
	protocol *pinctrl.Protocol

	// One listener per configured channel, in config order.
	servers []*transport.Server

	advertiser discovery.Advertiser
	discovery  *discovery.Manager

	eventHandlers []EventHandler

	logger         *slog.Logger
	protocolLogger log.Logger
}

// NewResponder creates a responder for table. The registry must describe
// exactly the table's agents.
func NewResponder(table *ownership.Table, registry *agent.Registry, config Config) (*Responder, error) {
	if registry.Count() != table.AgentCount() {
		return nil, fmt.Errorf("%w: registry has %d agents, table %d", ErrInvalidConfig, registry.Count(), table.AgentCount())
	}
	if err := config.Validate(table.AgentCount()); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Responder{
		config:         config,
		state:          StateIdle,
		registry:       registry,
		table:          table,
		protocol:       pinctrl.New(table, registry),
		logger:         logger,
		protocolLogger: log.OrNoop(config.ProtocolLogger),
	}
	r.protocol.SetLogger(logger)
	r.protocol.SetProtocolLogger(r.protocolLogger)

	table.OnTransition(r.handleTransition)
	registry.OnConnect(r.handleAgentConnect)
	registry.OnDisconnect(r.handleAgentDisconnect)

	return r, nil
}

// SetAdvertiser replaces the mDNS advertiser used when Config.Advertise is
// set. It must be called before Start.
func (r *Responder) SetAdvertiser(a discovery.Advertiser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advertiser = a
}

// Registry returns the agent registry.
func (r *Responder) Registry() *agent.Registry {
	return r.registry
}

// Table returns the ownership table.
func (r *Responder) Table() *ownership.Table {
	return r.table
}

// Protocol returns the message dispatcher.
func (r *Responder) Protocol() *pinctrl.Protocol {
	return r.protocol
}

// State returns the current service state.
func (r *Responder) State() ServiceState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// OnEvent registers a handler for responder events.
func (r *Responder) OnEvent(handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventHandlers = append(r.eventHandlers, handler)
}

// Start opens every channel and, when configured, advertises the TCP
// channels. On failure everything already opened is closed again.
func (r *Responder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateRunning || r.state == StateStarting {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.state = StateStarting
	r.mu.Unlock()

	servers, err := r.startServers(ctx)
	if err != nil {
		r.setState(StateIdle)
		return err
	}

	r.mu.Lock()
	r.servers = servers
	r.state = StateRunning
	r.mu.Unlock()

	if r.config.Advertise {
		if err := r.advertise(ctx); err != nil {
			// Channels stay usable by address.
			r.logger.Warn("responder: mDNS advertisement failed", "error", err)
		}
	}

	r.logState(log.StateEntityResponder, 0, StateIdle.String(), StateRunning.String(), "")
	r.logger.Info("responder: started", "channels", len(servers), "agents", r.registry.Count())
	return nil
}

func (r *Responder) startServers(ctx context.Context) ([]*transport.Server, error) {
	servers := make([]*transport.Server, 0, len(r.config.Channels))
	for i, ch := range r.config.Channels {
		srv, err := transport.NewServer(r.serverConfig(ch))
		if err == nil {
			err = srv.Start(ctx)
		}
		if err != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			for _, s := range servers {
				_ = s.Stop(stopCtx)
			}
			cancel()
			return nil, fmt.Errorf("channel %d (agent %d): %w", i, ch.AgentID, err)
		}
		r.logger.Debug("responder: channel listening", "agent", ch.AgentID, "network", srv.Network(), "address", srv.Addr())
		servers = append(servers, srv)
	}
	return servers, nil
}

func (r *Responder) serverConfig(ch ChannelConfig) transport.ServerConfig {
	maxPayload := ch.MaxPayloadSize
	if maxPayload == 0 {
		maxPayload = pinctrl.DefaultMaxPayloadSize
	}
	return transport.ServerConfig{
		Network:      ch.network(),
		Address:      ch.Address,
		MaxFrameSize: r.config.MaxFrameSize,
		Logger:       r.protocolLogger,
		OnConnect: func(conn *transport.ServerConn) {
			if err := r.registry.SetConnected(ch.AgentID); err != nil {
				r.logger.Warn("responder: connect", "agent", ch.AgentID, "error", err)
			}
		},
		OnDisconnect: func(conn *transport.ServerConn) {
			if err := r.registry.SetDisconnected(ch.AgentID); err != nil {
				r.logger.Warn("responder: disconnect", "agent", ch.AgentID, "error", err)
			}
		},
		OnMessage: func(conn *transport.ServerConn, msg []byte) {
			r.handleFrame(conn, ch.AgentID, maxPayload, msg)
		},
		OnError: func(conn *transport.ServerConn, err error) {
			if conn == nil {
				r.logError(nil, ch.AgentID, err, "accept")
				return
			}
			r.logError(conn, ch.AgentID, err, "transport")
		},
	}
}

// handleFrame decodes one command and dispatches it. Frames that cannot be
// answered are logged and dropped.
func (r *Responder) handleFrame(conn sender, agentID uint32, maxPayload int, msg []byte) {
	header, payload, err := wire.DecodeMessage(msg)
	if err != nil {
		r.logError(conn, agentID, err, "decode header")
		return
	}
	r.registry.UpdateLastSeen(agentID)

	ch := &messageChannel{
		agentID:    agentID,
		registry:   r.registry,
		header:     header,
		conn:       conn,
		maxPayload: maxPayload,
	}

	if header.Type != wire.TypeCommand {
		r.logger.Debug("responder: dropping non-command message", "agent", agentID, "header", header)
		return
	}
	if header.ProtocolID != wire.ProtocolID {
		out, _ := wire.StatusResponse{Status: wire.StatusNotSupported}.MarshalBinary()
		if err := ch.Respond(out); err != nil {
			r.logError(conn, agentID, err, "respond")
		}
		return
	}

	if err := r.protocol.HandleMessage(ch, header.MessageID, payload); err != nil {
		r.logError(conn, agentID, err, header.MessageID.String())
	}
}

func (r *Responder) advertise(ctx context.Context) error {
	r.mu.Lock()
	if r.advertiser == nil {
		cfg := discovery.DefaultAdvertiserConfig()
		cfg.Interface = r.config.Interface
		r.advertiser = discovery.NewMDNSAdvertiser(cfg)
	}
	r.discovery = discovery.NewManager(r.advertiser)
	mgr := r.discovery
	servers := r.servers
	r.mu.Unlock()

	var errs []error
	for i, srv := range servers {
		addr, ok := srv.Addr().(*net.TCPAddr)
		if !ok {
			continue
		}
		ch := r.config.Channels[i]
		a, _ := r.registry.Get(ch.AgentID)
		err := mgr.Add(ctx, &discovery.ChannelInfo{
			Responder: r.config.Name,
			AgentID:   ch.AgentID,
			AgentName: a.Name,
			Port:      uint16(addr.Port),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("agent %d: %w", ch.AgentID, err))
		}
	}
	return errors.Join(errs...)
}

// Stop withdraws advertisements and closes every channel.
func (r *Responder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return ErrNotStarted
	}
	r.state = StateStopping
	servers := r.servers
	mgr := r.discovery
	r.servers = nil
	r.discovery = nil
	r.mu.Unlock()

	if mgr != nil {
		mgr.Close()
	}

	var errs []error
	for _, srv := range servers {
		if err := srv.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	r.setState(StateStopped)
	r.logState(log.StateEntityResponder, 0, StateRunning.String(), StateStopped.String(), "")
	r.logger.Info("responder: stopped")
	return errors.Join(errs...)
}

// Addr returns the listen address of the first channel of an agent.
func (r *Responder) Addr(agentID uint32) (net.Addr, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, srv := range r.servers {
		if r.config.Channels[i].AgentID == agentID {
			return srv.Addr(), nil
		}
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownChannel, agentID)
}

// Advertised returns the channels currently published over mDNS.
func (r *Responder) Advertised() []discovery.ChannelInfo {
	r.mu.RLock()
	mgr := r.discovery
	r.mu.RUnlock()

	if mgr == nil {
		return nil
	}
	return mgr.Channels()
}

// ConnectionCount returns the number of open connections on all channels.
func (r *Responder) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, srv := range r.servers {
		n += srv.ConnectionCount()
	}
	return n
}

func (r *Responder) setState(s ServiceState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Responder) handleTransition(tr ownership.Transition) {
	r.protocolLogger.Log(log.Event{
		Timestamp: tr.At,
		Direction: log.DirectionNone,
		Layer:     log.LayerService,
		Category:  log.CategoryOwnership,
		AgentID:   log.Agent(tr.Agent),
		Ownership: &log.OwnershipEvent{
			Selector:   tr.Selector,
			ResourceID: tr.ID,
			Kind:       tr.Kind.String(),
		},
	})
	r.logger.Debug("responder: ownership changed", "transition", tr.String())
	r.emitEvent(Event{Type: EventOwnershipChanged, AgentID: tr.Agent, Transition: &tr})
}

func (r *Responder) handleAgentConnect(id uint32) {
	r.logState(log.StateEntityAgent, id, "DISCONNECTED", "CONNECTED", "")
	r.logger.Info("responder: agent connected", "agent", id)
	r.emitEvent(Event{Type: EventConnected, AgentID: id})
}

func (r *Responder) handleAgentDisconnect(id uint32) {
	r.logState(log.StateEntityAgent, id, "CONNECTED", "DISCONNECTED", "")
	r.logger.Info("responder: agent disconnected", "agent", id)
	r.emitEvent(Event{Type: EventDisconnected, AgentID: id})

	if !r.config.ReleaseOnDisconnect {
		return
	}
	if n := r.table.ReleaseAll(id); n > 0 {
		r.logger.Info("responder: released resources of disconnected agent", "agent", id, "count", n)
		r.emitEvent(Event{Type: EventResourcesReleased, AgentID: id, Released: n})
	}
}

func (r *Responder) logState(entity log.StateEntity, id uint32, from, to, reason string) {
	event := log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionNone,
		Layer:     log.LayerService,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	}
	if entity == log.StateEntityAgent {
		event.AgentID = log.Agent(id)
	}
	r.protocolLogger.Log(event)
}

func (r *Responder) logError(conn sender, agentID uint32, err error, op string) {
	event := log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionNone,
		Layer:     log.LayerService,
		Category:  log.CategoryError,
		AgentID:   log.Agent(agentID),
		Error: &log.ErrorEventData{
			Layer:   log.LayerService,
			Message: err.Error(),
			Context: op,
		},
	}
	if conn != nil {
		event.ConnectionID = conn.ConnID()
	}
	r.protocolLogger.Log(event)
	r.logger.Warn("responder: "+op, "agent", agentID, "error", err)
}

// emitEvent sends an event to all registered handlers.
func (r *Responder) emitEvent(event Event) {
	r.mu.RLock()
	handlers := r.eventHandlers
	r.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}
