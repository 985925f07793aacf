package client

import (
	"context"
	"encoding"
	"fmt"
	"sync"
	"time"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/wire"
)

// DefaultTimeout bounds a command when the context has no deadline.
const DefaultTimeout = 5 * time.Second

// Conn is a framed connection to a responder channel.
type Conn interface {
	Send(data []byte) error
	Receive(timeout time.Duration) ([]byte, error)
	Close() error
}

var _ Conn = (*transport.Conn)(nil)

type reply struct {
	header  wire.Header
	payload []byte
}

// Client issues pin control commands over one connection.
type Client struct {
	mu sync.RWMutex

	conn    Conn
	timeout time.Duration

	// Token generator
	nextToken uint16

	// Pending commands awaiting responses, by token
	pending   map[uint16]chan reply
	pendingMu sync.Mutex

	closed  bool
	readErr error
	done    chan struct{}
}

// New creates a client on conn and starts reading responses.
func New(conn Conn) *Client {
	c := &Client{
		conn:    conn,
		timeout: DefaultTimeout,
		pending: make(map[uint16]chan reply),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Dial connects to a responder channel.
func Dial(ctx context.Context, network, address string) (*Client, error) {
	conn, err := transport.Dial(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// SetTimeout sets the command timeout used when the context has no
// deadline.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection and fails all pending commands.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		data, err := c.conn.Receive(0)
		if err != nil {
			c.fail(err)
			return
		}
		h, payload, err := wire.DecodeMessage(data)
		if err != nil {
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[h.Token]
		if ok {
			delete(c.pending, h.Token)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- reply{header: h, payload: payload}
		}
	}
}

// fail closes every pending command after the connection ended.
func (c *Client) fail(err error) {
	c.mu.Lock()
	c.closed = true
	c.readErr = err
	c.mu.Unlock()

	c.pendingMu.Lock()
	for token, ch := range c.pending {
		close(ch)
		delete(c.pending, token)
	}
	c.pendingMu.Unlock()
}

// reserve allocates a free token for a command.
func (c *Client) reserve() (uint16, chan reply, error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for range wire.MaxToken + 1 {
		token := c.nextToken
		c.nextToken = (c.nextToken + 1) & wire.MaxToken
		if _, busy := c.pending[token]; busy {
			continue
		}
		ch := make(chan reply, 1)
		c.pending[token] = ch
		return token, ch, nil
	}
	return 0, nil, ErrTokensExhausted
}

func (c *Client) release(token uint16) {
	c.pendingMu.Lock()
	delete(c.pending, token)
	c.pendingMu.Unlock()
}

// response is implemented by the pointer types of the wire responses.
type response interface {
	encoding.BinaryUnmarshaler
	ResponseStatus() wire.Status
}

// call sends a command and decodes its response into resp. A non-success
// status is returned as *StatusError.
func (c *Client) call(ctx context.Context, id wire.MessageID, req encoding.BinaryMarshaler, resp response) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrClientClosed
	}
	timeout := c.timeout
	c.mu.RUnlock()

	var payload []byte
	if req != nil {
		var err error
		if payload, err = req.MarshalBinary(); err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
	}

	token, ch, err := c.reserve()
	if err != nil {
		return err
	}
	defer c.release(token)

	h := wire.Header{MessageID: id, Type: wire.TypeCommand, ProtocolID: wire.ProtocolID, Token: token}
	if err := c.conn.Send(wire.EncodeMessage(h, payload)); err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var r reply
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrRequestTimeout
		}
		return ctx.Err()
	case got, ok := <-ch:
		if !ok {
			return ErrClientClosed
		}
		r = got
	}

	if r.header.MessageID != id || r.header.ProtocolID != wire.ProtocolID {
		// A foreign protocol id is answered with a bare status.
		var st wire.StatusResponse
		if err := st.UnmarshalBinary(r.payload); err == nil && st.Status.IsError() {
			return &StatusError{MessageID: id, Status: st.Status}
		}
		return fmt.Errorf("%w: %s", ErrUnexpectedReply, r.header)
	}

	if err := resp.UnmarshalBinary(r.payload); err != nil {
		return fmt.Errorf("decode %s: %w", id, err)
	}
	if st := resp.ResponseStatus(); st.IsError() {
		return &StatusError{MessageID: id, Status: st}
	}
	return nil
}
