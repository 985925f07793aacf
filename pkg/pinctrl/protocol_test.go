package pinctrl

import (
	"encoding"
	"errors"
	"sync"
	"testing"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/catalog"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/ownership"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// fakeChannel records the responses sent for one agent.
type fakeChannel struct {
	agent    uint32
	agentErr error
	capacity int
	sendErr  error

	agentCalls int
	responses  [][]byte
}

func (c *fakeChannel) AgentID() (uint32, error) {
	c.agentCalls++
	return c.agent, c.agentErr
}

func (c *fakeChannel) MaxPayloadSize() int { return c.capacity }

func (c *fakeChannel) Respond(payload []byte) error {
	c.responses = append(c.responses, payload)
	return c.sendErr
}

func (c *fakeChannel) last(t *testing.T) []byte {
	t.Helper()
	if len(c.responses) != 1 {
		t.Fatalf("got %d responses, want exactly 1", len(c.responses))
	}
	return c.responses[0]
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *captureLogger) Log(e log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func newProtocol(t *testing.T, c *catalog.Catalog, agents int, privileged ...uint32) *Protocol {
	t.Helper()
	tbl, err := ownership.New(c, agents)
	if err != nil {
		t.Fatalf("ownership.New() error = %v", err)
	}
	roles := RolesFunc(func(a uint32) bool {
		for _, p := range privileged {
			if p == a {
				return true
			}
		}
		return false
	})
	return New(tbl, roles)
}

func payload(t *testing.T, m encoding.BinaryMarshaler) []byte {
	t.Helper()
	b, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	return b
}

// send dispatches a message as agent and decodes the single response into resp.
func send(t *testing.T, p *Protocol, agent uint32, id wire.MessageID, req []byte, resp encoding.BinaryUnmarshaler) {
	t.Helper()
	ch := &fakeChannel{agent: agent}
	if err := p.HandleMessage(ch, id, req); err != nil {
		t.Fatalf("HandleMessage(%s) error = %v", id, err)
	}
	if err := resp.UnmarshalBinary(ch.last(t)); err != nil {
		t.Fatalf("decode %s response: %v", id, err)
	}
}

func status(t *testing.T, p *Protocol, agent uint32, id wire.MessageID, req []byte) wire.Status {
	t.Helper()
	var r wire.StatusResponse
	send(t, p, agent, id, req, &r)
	return r.Status
}

func resource(sel wire.Selector, id uint16) wire.ResourceRequest {
	return wire.NewResourceRequest(sel, id)
}

func TestDispatchUnknownMessage(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)

	for _, id := range []wire.MessageID{0x0b, 0x0f, 0x11, 0xff} {
		ch := &fakeChannel{agentErr: errors.New("must not be asked")}
		if err := p.HandleMessage(ch, id, nil); err != nil {
			t.Fatalf("HandleMessage(%#x) error = %v", uint8(id), err)
		}
		var r wire.StatusResponse
		if err := r.UnmarshalBinary(ch.last(t)); err != nil {
			t.Fatal(err)
		}
		if r.Status != wire.StatusNotFound {
			t.Errorf("message %#x status = %s, want NOT_FOUND", uint8(id), r.Status)
		}
		if ch.agentCalls != 0 {
			t.Error("agent resolved for an unknown message")
		}
	}
}

func TestDispatchSizeMismatch(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)
	req := payload(t, resource(wire.SelectorPin, 0))

	configure := payload(t, wire.SettingsConfigureRequest{
		Identifier: 1,
		Attributes: wire.SettingsConfigureAttributes{Selector: wire.SelectorGroup}.Pack(),
		Configs:    []wire.ConfigPair{{Type: wire.ConfigBiasPullUp, Value: 1}},
	})

	tests := []struct {
		name    string
		id      wire.MessageID
		payload []byte
	}{
		{"request one byte short", wire.MsgRequest, req[:len(req)-1]},
		{"request one byte long", wire.MsgRequest, append(append([]byte{}, req...), 0)},
		{"version with payload", wire.MsgProtocolVersion, []byte{0}},
		{"attributes empty", wire.MsgAttributes, nil},
		{"list associations short", wire.MsgListAssociations, req},
		{"configure missing config", wire.MsgSettingsConfigure, configure[:wire.SizeSettingsConfigure]},
		{"configure extra bytes", wire.MsgSettingsConfigure, append(append([]byte{}, configure...), 1, 2, 3, 4)},
		{"configure without attributes", wire.MsgSettingsConfigure, configure[:5]},
		{"set permissions short", wire.MsgSetPermissions, req},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &fakeChannel{agent: 1}
			if err := p.HandleMessage(ch, tt.id, tt.payload); err != nil {
				t.Fatalf("HandleMessage() error = %v", err)
			}
			var r wire.StatusResponse
			if err := r.UnmarshalBinary(ch.last(t)); err != nil {
				t.Fatal(err)
			}
			if r.Status != wire.StatusProtocolError {
				t.Errorf("status = %s, want PROTOCOL_ERROR", r.Status)
			}
			if ch.agentCalls != 0 {
				t.Error("agent resolved for a malformed message")
			}
		})
	}

	owner, _ := p.Table().Owner(wire.SelectorPin, 0)
	if owner != ownership.Unowned {
		t.Errorf("malformed Request changed state: owner = %s", owner)
	}
}

func TestDispatchInternalErrors(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)
	req := payload(t, resource(wire.SelectorPin, 0))

	t.Run("agent resolution", func(t *testing.T) {
		ch := &fakeChannel{agentErr: errors.New("no identity")}
		err := p.HandleMessage(ch, wire.MsgRequest, req)
		if !errors.Is(err, ErrAgentResolution) {
			t.Errorf("error = %v, want ErrAgentResolution", err)
		}
		if len(ch.responses) != 0 {
			t.Error("internal error must not be answered")
		}
	})

	t.Run("agent out of range", func(t *testing.T) {
		ch := &fakeChannel{agent: 3}
		err := p.HandleMessage(ch, wire.MsgRequest, req)
		if !errors.Is(err, ErrAgentOutOfRange) {
			t.Errorf("error = %v, want ErrAgentOutOfRange", err)
		}
		if len(ch.responses) != 0 {
			t.Error("internal error must not be answered")
		}
	})

	t.Run("respond failure", func(t *testing.T) {
		ch := &fakeChannel{agent: 1, sendErr: errors.New("link down")}
		err := p.HandleMessage(ch, wire.MsgProtocolVersion, nil)
		if !errors.Is(err, ErrRespond) {
			t.Errorf("error = %v, want ErrRespond", err)
		}
	})
}

func TestProtocolLog(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)
	events := &captureLogger{}
	p.SetProtocolLogger(events)

	status(t, p, 1, wire.MsgRequest, payload(t, resource(wire.SelectorGroup, 0)))
	status(t, p, 2, wire.MsgRequest, payload(t, resource(wire.SelectorGroup, 0)))
	p.HandleMessage(&fakeChannel{}, 0x0c, nil)

	if len(events.events) != 3 {
		t.Fatalf("logged %d events, want 3", len(events.events))
	}
	first := events.events[0]
	if first.Category != log.CategoryMessage || first.Message.MessageID != wire.MsgRequest {
		t.Errorf("first event = %+v", first)
	}
	if *first.AgentID != 1 || *first.Message.Status != wire.StatusSuccess {
		t.Errorf("first event agent/status = %d/%s", *first.AgentID, *first.Message.Status)
	}
	if *events.events[1].Message.Status != wire.StatusDenied {
		t.Errorf("second status = %s", *events.events[1].Message.Status)
	}
	if events.events[2].AgentID != nil {
		t.Error("unknown message must be logged without an agent")
	}
}

func TestVersion(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)

	var v wire.ProtocolVersionResponse
	send(t, p, 1, wire.MsgProtocolVersion, nil, &v)
	if v.Status != wire.StatusSuccess || v.Version != 0x10000 {
		t.Errorf("version = %s %#x", v.Status, v.Version)
	}

	tests := []struct {
		version uint32
		want    wire.Status
	}{
		{0x10000, wire.StatusSuccess},
		{0x10001, wire.StatusNotSupported},
		{0x20000, wire.StatusNotSupported},
		{0, wire.StatusNotSupported},
	}
	for _, tt := range tests {
		got := status(t, p, 1, wire.MsgNegotiateVersion, payload(t, wire.NegotiateVersionRequest{Version: tt.version}))
		if got != tt.want {
			t.Errorf("negotiate %#x = %s, want %s", tt.version, got, tt.want)
		}
	}
}

func TestProtocolAttributes(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)

	var r wire.ProtocolAttributesResponse
	send(t, p, 1, wire.MsgProtocolAttributes, nil, &r)
	if r.Pins != 12 || r.Groups != 5 || r.Functions != 3 {
		t.Errorf("agent 1 counts = %d/%d/%d, want 12/5/3", r.Pins, r.Groups, r.Functions)
	}

	send(t, p, 2, wire.MsgProtocolAttributes, nil, &r)
	if r.Pins != 0 || r.Groups != 0 || r.Functions != 0 {
		t.Errorf("agent 2 counts = %d/%d/%d, want 0/0/0", r.Pins, r.Groups, r.Functions)
	}
}

func TestMessageAttributes(t *testing.T) {
	p := newProtocol(t, catalog.Reference(), 3)

	for _, id := range wire.MessageIDs {
		var r wire.MessageAttributesResponse
		send(t, p, 1, wire.MsgMessageAttributes, payload(t, wire.MessageAttributesRequest{MessageID: uint32(id)}), &r)
		if r.Status != wire.StatusSuccess || r.Attributes != 0 {
			t.Errorf("%s = %s/%#x", id, r.Status, r.Attributes)
		}
	}
	for _, id := range []uint32{0x0b, 0x11, 0x119} {
		var r wire.MessageAttributesResponse
		send(t, p, 1, wire.MsgMessageAttributes, payload(t, wire.MessageAttributesRequest{MessageID: id}), &r)
		if r.Status != wire.StatusNotFound {
			t.Errorf("message %#x = %s, want NOT_FOUND", id, r.Status)
		}
	}
}
