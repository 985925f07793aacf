package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/log"
)

// Server errors.
var (
	ErrServerRunning      = errors.New("server already running")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrNoAddress          = errors.New("listen address required")
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Network is "tcp", "tcp4", "tcp6" or "unix". Default "tcp".
	Network string

	// Address to listen on, e.g. "127.0.0.1:4019" or "/run/pinctrl/agent1.sock".
	Address string

	// MaxFrameSize is the maximum frame size (default 64 KB).
	MaxFrameSize uint32

	// Logger receives frame and connection events (optional).
	Logger log.Logger

	// OnConnect is called when a connection is accepted.
	OnConnect func(conn *ServerConn)

	// OnDisconnect is called after a connection has closed.
	OnDisconnect func(conn *ServerConn)

	// OnMessage is called for every received frame, on the connection's
	// read goroutine. Frames of one connection are delivered in order.
	OnMessage func(conn *ServerConn, msg []byte)

	// OnError is called for accept and read errors.
	OnError func(conn *ServerConn, err error)
}

// Server accepts agent connections on one socket.
type Server struct {
	config   ServerConfig
	listener net.Listener

	conns   map[*ServerConn]struct{}
	connsMu sync.RWMutex

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Network == "" {
		config.Network = "tcp"
	}
	switch config.Network {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedNetwork, config.Network)
	}
	if config.Address == "" {
		return nil, ErrNoAddress
	}
	if config.MaxFrameSize == 0 {
		config.MaxFrameSize = DefaultMaxFrameSize
	}
	return &Server{
		config: config,
		conns:  make(map[*ServerConn]struct{}),
	}, nil
}

// Start listens and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return ErrServerRunning
	}
	if s.config.Network == "unix" {
		removeStaleSocket(s.config.Address)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, s.config.Network, s.config.Address)
	if err != nil {
		return fmt.Errorf("listen on %s %s: %w", s.config.Network, s.config.Address, err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.listener = listener
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// removeStaleSocket removes a socket file left behind by an earlier run.
// Regular files are left alone so that Listen reports the conflict.
func removeStaleSocket(path string) {
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSocket != 0 {
		os.Remove(path)
	}
}

// Stop closes the listener and all connections and waits for their
// goroutines to finish, or for ctx to end.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.connsMu.RLock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.RUnlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Network returns the network the server listens on.
func (s *Server) Network() string {
	return s.config.Network
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.reportError(nil, fmt.Errorf("accept: %w", err))
			if errors.Is(err, net.ErrClosed) {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) reportError(conn *ServerConn, err error) {
	if s.config.OnError != nil {
		s.config.OnError(conn, err)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	connID := uuid.New().String()
	framer := NewFramer(conn, s.config.MaxFrameSize)
	if s.config.Logger != nil {
		framer.SetLogger(s.config.Logger, connID)
	}

	sconn := &ServerConn{
		conn:       conn,
		framer:     framer,
		server:     s,
		closeCh:    make(chan struct{}),
		remoteAddr: remoteAddr(conn),
		connID:     connID,
	}

	s.connsMu.Lock()
	if !s.running.Load() {
		s.connsMu.Unlock()
		conn.Close()
		return
	}
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()

	s.logState(sconn, "", "CONNECTED")
	if s.config.OnConnect != nil {
		s.config.OnConnect(sconn)
	}

	sconn.readLoop()
	sconn.Close()

	s.connsMu.Lock()
	delete(s.conns, sconn)
	s.connsMu.Unlock()

	s.logState(sconn, "CONNECTED", "DISCONNECTED")
	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(sconn)
	}
}

func remoteAddr(conn net.Conn) string {
	if a := conn.RemoteAddr(); a != nil && a.String() != "" {
		return a.String()
	}
	return conn.LocalAddr().Network()
}

func (s *Server) logState(c *ServerConn, from, to string) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Direction:    log.DirectionNone,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		RemoteAddr:   c.remoteAddr,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: from,
			NewState: to,
		},
	})
}

// ServerConn is an accepted connection.
type ServerConn struct {
	conn       net.Conn
	framer     *Framer
	server     *Server
	closeCh    chan struct{}
	closeOnce  sync.Once
	remoteAddr string
	connID     string
}

// ConnID returns the connection's unique identifier.
func (c *ServerConn) ConnID() string {
	return c.connID
}

// RemoteAddr returns the peer address. Unix socket peers are usually
// unnamed and report "unix".
func (c *ServerConn) RemoteAddr() string {
	return c.remoteAddr
}

// Send writes one frame to the peer.
func (c *ServerConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Close closes the connection. It is safe to call more than once.
func (c *ServerConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

func (c *ServerConn) closing() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return !c.server.running.Load()
	}
}

func (c *ServerConn) readLoop() {
	for {
		data, err := c.framer.ReadFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && !c.closing() {
				c.server.reportError(c, err)
			}
			return
		}
		if c.server.config.OnMessage != nil {
			c.server.config.OnMessage(c, data)
		}
	}
}
