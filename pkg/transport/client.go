package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// Connection errors.
var (
	ErrConnectionClosed = errors.New("connection closed")
)

// DefaultConnectTimeout bounds Dial when the context has no deadline.
const DefaultConnectTimeout = 10 * time.Second

// DialConfig configures an agent-side connection.
type DialConfig struct {
	// Network is "tcp", "tcp4", "tcp6" or "unix". Default "tcp".
	Network string

	// Address of the responder channel.
	Address string

	// MaxFrameSize is the maximum frame size (default 64 KB).
	MaxFrameSize uint32

	// ConnectTimeout is used when ctx has no deadline (default 10s).
	ConnectTimeout time.Duration
}

// Dial connects to a responder channel.
func Dial(ctx context.Context, network, address string) (*Conn, error) {
	return DialWithConfig(ctx, DialConfig{Network: network, Address: address})
}

// DialWithConfig connects to a responder channel.
func DialWithConfig(ctx context.Context, config DialConfig) (*Conn, error) {
	if config.Network == "" {
		config.Network = "tcp"
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, config.Network, config.Address)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", config.Network, config.Address, err)
	}
	return &Conn{
		conn:    conn,
		framer:  NewFramer(conn, config.MaxFrameSize),
		closeCh: make(chan struct{}),
	}, nil
}

// Conn is an agent-side connection to a responder channel.
type Conn struct {
	conn    net.Conn
	framer  *Framer
	closeCh chan struct{}

	closeOnce sync.Once
	readMu    sync.Mutex
}

// LocalAddr returns the local network address.
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the responder's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send writes one frame.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Receive reads one frame. A zero timeout waits indefinitely.
func (c *Conn) Receive(timeout time.Duration) ([]byte, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	select {
	case <-c.closeCh:
		return nil, ErrConnectionClosed
	default:
	}

	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
		defer c.conn.SetReadDeadline(time.Time{})
	}
	return c.framer.ReadFrame()
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}
