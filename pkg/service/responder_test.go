package service

import (
	"context"
	"encoding"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/agent"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery/mocks"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

const testTimeout = 2 * time.Second

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *recordingLogger) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingLogger) byCategory(c log.Category) []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []log.Event
	for _, e := range l.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// newTestResponder serves the reference catalog to a privileged agent 0
// on a unix socket and agent 1 on TCP.
func newTestResponder(t *testing.T, mutate func(*Config)) *Responder {
	t.Helper()

	table, err := ownership.New(catalog.Reference(), 2)
	require.NoError(t, err)

	registry := agent.NewRegistry()
	require.NoError(t, registry.Add(0, "platform", true))
	require.NoError(t, registry.Add(1, "ospm", false))

	config := DefaultConfig()
	config.Name = "test"
	config.Channels = []ChannelConfig{
		{AgentID: 0, Network: "unix", Address: filepath.Join(t.TempDir(), "platform.sock")},
		{AgentID: 1, Network: "tcp", Address: "127.0.0.1:0"},
	}
	if mutate != nil {
		mutate(&config)
	}

	r, err := NewResponder(table, registry, config)
	require.NoError(t, err)
	return r
}

func startResponder(t *testing.T, r *Responder) {
	t.Helper()
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() {
		if r.State() == StateRunning {
			_ = r.Stop(context.Background())
		}
	})
}

func dialAgent(t *testing.T, r *Responder, id uint32) *transport.Conn {
	t.Helper()
	addr, err := r.Addr(id)
	require.NoError(t, err)

	conn, err := transport.Dial(context.Background(), addr.Network(), addr.String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// roundTrip sends one command and returns the response header and payload.
func roundTrip(t *testing.T, conn *transport.Conn, h wire.Header, req encoding.BinaryMarshaler) (wire.Header, []byte) {
	t.Helper()
	var payload []byte
	if req != nil {
		var err error
		payload, err = req.MarshalBinary()
		require.NoError(t, err)
	}
	require.NoError(t, conn.Send(wire.EncodeMessage(h, payload)))

	data, err := conn.Receive(testTimeout)
	require.NoError(t, err)
	rh, rp, err := wire.DecodeMessage(data)
	require.NoError(t, err)
	return rh, rp
}

func command(id wire.MessageID, token uint16) wire.Header {
	return wire.Header{MessageID: id, Type: wire.TypeCommand, ProtocolID: wire.ProtocolID, Token: token}
}

func status(t *testing.T, payload []byte) wire.Status {
	t.Helper()
	var r wire.StatusResponse
	require.NoError(t, r.UnmarshalBinary(payload))
	return r.Status
}

func TestResponderProtocolVersion(t *testing.T) {
	r := newTestResponder(t, nil)
	startResponder(t, r)

	for _, id := range []uint32{0, 1} {
		conn := dialAgent(t, r, id)
		h := command(wire.MsgProtocolVersion, uint16(100+id))
		rh, rp := roundTrip(t, conn, h, nil)

		assert.Equal(t, h, rh, "response echoes the command header")
		var resp wire.ProtocolVersionResponse
		require.NoError(t, resp.UnmarshalBinary(rp))
		assert.Equal(t, wire.StatusSuccess, resp.Status)
		assert.Equal(t, wire.ProtocolVersion, resp.Version)
	}
}

func TestResponderWrongProtocol(t *testing.T) {
	r := newTestResponder(t, nil)
	startResponder(t, r)
	conn := dialAgent(t, r, 1)

	h := wire.Header{MessageID: wire.MsgProtocolVersion, ProtocolID: 0x10, Token: 7}
	rh, rp := roundTrip(t, conn, h, nil)
	assert.Equal(t, h, rh)
	assert.Equal(t, wire.StatusNotSupported, status(t, rp))
}

func TestResponderDropsNonCommands(t *testing.T) {
	r := newTestResponder(t, nil)
	startResponder(t, r)
	conn := dialAgent(t, r, 1)

	note := command(wire.MsgProtocolVersion, 1)
	note.Type = wire.TypeNotification
	require.NoError(t, conn.Send(wire.EncodeMessage(note, nil)))
	require.NoError(t, conn.Send([]byte{0x01}))

	// Only the command after the dropped frames is answered.
	rh, _ := roundTrip(t, conn, command(wire.MsgProtocolVersion, 2), nil)
	assert.Equal(t, uint16(2), rh.Token)
}

func TestResponderAgentIdentityFromChannel(t *testing.T) {
	r := newTestResponder(t, nil)
	startResponder(t, r)
	platform := dialAgent(t, r, 0)
	ospm := dialAgent(t, r, 1)

	pin0 := wire.NewResourceRequest(wire.SelectorPin, 0)

	_, rp := roundTrip(t, platform, command(wire.MsgRequest, 1), pin0)
	assert.Equal(t, wire.StatusDenied, status(t, rp), "agent 0 has no access to pin 0")

	_, rp = roundTrip(t, ospm, command(wire.MsgRequest, 2), pin0)
	assert.Equal(t, wire.StatusSuccess, status(t, rp))

	owner, st := r.Table().Owner(wire.SelectorPin, 0)
	require.Equal(t, wire.StatusSuccess, st)
	assert.Equal(t, ownership.OwnedBy(1), owner)

	// The privileged agent grants itself access; the pin stays owned.
	grant := wire.SetPermissionsRequest{AgentID: 0, Identifier: 0, Flags: wire.PackPermissionFlags(wire.SelectorPin, true)}
	_, rp = roundTrip(t, platform, command(wire.MsgSetPermissions, 3), grant)
	assert.Equal(t, wire.StatusSuccess, status(t, rp))

	_, rp = roundTrip(t, platform, command(wire.MsgRequest, 4), pin0)
	assert.Equal(t, wire.StatusInUse, status(t, rp))

	// The unprivileged agent may not change permissions.
	revoke := wire.SetPermissionsRequest{AgentID: 0, Identifier: 0, Flags: wire.PackPermissionFlags(wire.SelectorPin, false)}
	_, rp = roundTrip(t, ospm, command(wire.MsgSetPermissions, 5), revoke)
	assert.Equal(t, wire.StatusDenied, status(t, rp))
}

func TestResponderSmallChannelPayload(t *testing.T) {
	r := newTestResponder(t, func(c *Config) {
		c.Channels[1].MaxPayloadSize = 12
	})
	startResponder(t, r)
	conn := dialAgent(t, r, 1)

	req := wire.ListAssociationsRequest{Identifier: 0, Flags: uint32(wire.SelectorGroup)}
	_, rp := roundTrip(t, conn, command(wire.MsgListAssociations, 1), req)

	var resp wire.ListAssociationsResponse
	require.NoError(t, resp.UnmarshalBinary(rp))
	require.Equal(t, wire.StatusSuccess, resp.Status)
	assert.Len(t, resp.Members, 2)
	assert.Equal(t, 2, resp.Remaining)
}

func TestResponderReleaseOnDisconnect(t *testing.T) {
	r := newTestResponder(t, func(c *Config) { c.ReleaseOnDisconnect = true })

	released := make(chan Event, 1)
	r.OnEvent(func(e Event) {
		if e.Type == EventResourcesReleased {
			released <- e
		}
	})
	startResponder(t, r)

	conn := dialAgent(t, r, 1)
	_, rp := roundTrip(t, conn, command(wire.MsgRequest, 1), wire.NewResourceRequest(wire.SelectorGroup, 0))
	require.Equal(t, wire.StatusSuccess, status(t, rp))
	require.True(t, r.Registry().IsConnected(1))

	require.NoError(t, conn.Close())

	select {
	case e := <-released:
		assert.Equal(t, uint32(1), e.AgentID)
		assert.Equal(t, 1, e.Released)
	case <-time.After(testTimeout):
		t.Fatal("resources not released")
	}
	owner, _ := r.Table().Owner(wire.SelectorGroup, 0)
	assert.Equal(t, ownership.Unowned, owner)
	assert.False(t, r.Registry().IsConnected(1))
}

func TestResponderKeepsOwnershipWithoutRelease(t *testing.T) {
	r := newTestResponder(t, nil)
	startResponder(t, r)

	conn := dialAgent(t, r, 1)
	_, rp := roundTrip(t, conn, command(wire.MsgRequest, 1), wire.NewResourceRequest(wire.SelectorPin, 3))
	require.Equal(t, wire.StatusSuccess, status(t, rp))
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return !r.Registry().IsConnected(1) }, testTimeout, 10*time.Millisecond)
	owner, _ := r.Table().Owner(wire.SelectorPin, 3)
	assert.Equal(t, ownership.OwnedBy(1), owner)
}

func TestResponderProtocolLog(t *testing.T) {
	plog := &recordingLogger{}
	r := newTestResponder(t, func(c *Config) { c.ProtocolLogger = plog })
	startResponder(t, r)

	conn := dialAgent(t, r, 1)
	_, rp := roundTrip(t, conn, command(wire.MsgRequest, 9), wire.NewResourceRequest(wire.SelectorPin, 2))
	require.Equal(t, wire.StatusSuccess, status(t, rp))

	owned := plog.byCategory(log.CategoryOwnership)
	require.Len(t, owned, 1)
	assert.Equal(t, "acquired", owned[0].Ownership.Kind)
	assert.Equal(t, uint16(2), owned[0].Ownership.ResourceID)
	require.NotNil(t, owned[0].AgentID)
	assert.Equal(t, uint32(1), *owned[0].AgentID)

	// Frame events share the category and carry no message.
	var handled *log.Event
	for _, e := range plog.byCategory(log.CategoryMessage) {
		if e.Message != nil && e.Message.MessageID == wire.MsgRequest {
			found := e
			handled = &found
		}
	}
	require.NotNil(t, handled)
	assert.Equal(t, uint16(9), handled.Message.Token)
	assert.NotEmpty(t, handled.ConnectionID)
}

func TestResponderAdvertisesTCPChannels(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	r := newTestResponder(t, func(c *Config) { c.Advertise = true })
	r.SetAdvertiser(adv)

	adv.EXPECT().AdvertiseChannel(mock.Anything, mock.MatchedBy(func(info *discovery.ChannelInfo) bool {
		return info.AgentID == 1 && info.AgentName == "ospm" && info.Responder == "test" && info.Port != 0
	})).Return(nil).Once()
	adv.EXPECT().StopAll().Return().Once()

	require.NoError(t, r.Start(context.Background()))

	advertised := r.Advertised()
	require.Len(t, advertised, 1)
	assert.Equal(t, "test-a1", advertised[0].InstanceName())

	require.NoError(t, r.Stop(context.Background()))
	assert.Nil(t, r.Advertised())
}

func TestResponderLifecycle(t *testing.T) {
	r := newTestResponder(t, nil)
	assert.Equal(t, StateIdle, r.State())
	assert.ErrorIs(t, r.Stop(context.Background()), ErrNotStarted)

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, StateRunning, r.State())
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyStarted)

	_, err := r.Addr(5)
	assert.ErrorIs(t, err, ErrUnknownChannel)

	require.NoError(t, r.Stop(context.Background()))
	assert.Equal(t, StateStopped, r.State())
	assert.Equal(t, 0, r.ConnectionCount())
}

func TestResponderStartFailureClosesChannels(t *testing.T) {
	blocker := newTestResponder(t, nil)
	startResponder(t, blocker)
	taken, err := blocker.Addr(1)
	require.NoError(t, err)

	r := newTestResponder(t, func(c *Config) {
		c.Channels[1].Address = taken.String()
	})
	err = r.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, 0, r.ConnectionCount())
}

func TestNewResponderAgentMismatch(t *testing.T) {
	table, err := ownership.New(catalog.Reference(), 2)
	require.NoError(t, err)
	registry := agent.NewRegistry()
	require.NoError(t, registry.Add(0, "platform", true))

	config := DefaultConfig()
	config.Channels = []ChannelConfig{{AgentID: 0, Address: "127.0.0.1:0"}}
	_, err = NewResponder(table, registry, config)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		channels []ChannelConfig
		wantErr  bool
	}{
		{"no channels", nil, true},
		{"agent out of range", []ChannelConfig{{AgentID: 2, Address: ":0"}}, true},
		{"empty address", []ChannelConfig{{AgentID: 0}}, true},
		{"bad network", []ChannelConfig{{AgentID: 0, Network: "udp", Address: ":4190"}}, true},
		{"negative payload", []ChannelConfig{{AgentID: 0, Address: ":4190", MaxPayloadSize: -1}}, true},
		{"duplicate", []ChannelConfig{{AgentID: 0, Address: ":4190"}, {AgentID: 1, Network: "tcp", Address: ":4190"}}, true},
		{"ephemeral ports repeat", []ChannelConfig{{AgentID: 0, Address: ":0"}, {AgentID: 1, Address: ":0"}}, false},
		{"valid", []ChannelConfig{{AgentID: 0, Network: "unix", Address: "/tmp/a.sock"}, {AgentID: 1, Address: ":4190"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			c.Channels = tt.channels
			err := c.Validate(2)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type fakeSender struct {
	sent [][]byte
}

func (f *fakeSender) ConnID() string { return "conn-1" }

func (f *fakeSender) Send(data []byte) error {
	f.sent = append(f.sent, data)
	return nil
}

func TestMessageChannel(t *testing.T) {
	registry := agent.NewRegistry()
	require.NoError(t, registry.Add(0, "platform", true))

	out := &fakeSender{}
	h := command(wire.MsgNameGet, 42)
	ch := &messageChannel{agentID: 0, registry: registry, header: h, conn: out, maxPayload: 64}

	id, err := ch.AgentID()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, 64, ch.MaxPayloadSize())
	assert.Equal(t, uint16(42), ch.Token())
	assert.Equal(t, "conn-1", ch.ConnectionID())

	require.NoError(t, ch.Respond([]byte{0, 0, 0, 0}))
	assert.ErrorIs(t, ch.Respond([]byte{0, 0, 0, 0}), ErrAlreadyResponded)
	require.Len(t, out.sent, 1)

	rh, rp, err := wire.DecodeMessage(out.sent[0])
	require.NoError(t, err)
	assert.Equal(t, h, rh)
	assert.Equal(t, []byte{0, 0, 0, 0}, rp)

	ch.agentID = 3
	_, err = ch.AgentID()
	assert.ErrorIs(t, err, agent.ErrAgentNotFound)
}

func TestServiceStateString(t *testing.T) {
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "UNKNOWN", ServiceState(99).String())
	assert.Equal(t, "RESOURCES_RELEASED", EventResourcesReleased.String())
}
