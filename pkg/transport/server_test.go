package transport_test

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/transport"
)

// echoServer starts a server that echoes every frame back to the sender.
func echoServer(t *testing.T, network, address string) (*transport.Server, *events) {
	t.Helper()
	ev := &events{connected: make(chan string, 4), disconnected: make(chan string, 4)}

	srv, err := transport.NewServer(transport.ServerConfig{
		Network: network,
		Address: address,
		OnConnect: func(c *transport.ServerConn) {
			ev.connected <- c.ConnID()
		},
		OnDisconnect: func(c *transport.ServerConn) {
			ev.disconnected <- c.ConnID()
		},
		OnMessage: func(c *transport.ServerConn, msg []byte) {
			c.Send(msg)
		},
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv, ev
}

type events struct {
	connected    chan string
	disconnected chan string
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for callback")
		return ""
	}
}

func TestNewServerValidation(t *testing.T) {
	_, err := transport.NewServer(transport.ServerConfig{Network: "udp", Address: ":0"})
	assert.ErrorIs(t, err, transport.ErrUnsupportedNetwork)

	_, err = transport.NewServer(transport.ServerConfig{})
	assert.ErrorIs(t, err, transport.ErrNoAddress)
}

func TestServerEchoTCP(t *testing.T) {
	srv, ev := echoServer(t, "tcp", "127.0.0.1:0")

	conn, err := transport.Dial(context.Background(), "tcp", srv.Addr().String())
	require.NoError(t, err)

	connID := waitFor(t, ev.connected)
	assert.Len(t, connID, 36, "connection ids are UUIDs")
	assert.Equal(t, 1, srv.ConnectionCount())

	msg := []byte{0x03, 0x64, 0x00, 0x00, 0x05, 0, 0, 0, 0x01, 0, 0, 0}
	require.NoError(t, conn.Send(msg))
	got, err := conn.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	require.NoError(t, conn.Close())
	assert.Equal(t, connID, waitFor(t, ev.disconnected))
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, conn.Send(msg), transport.ErrConnectionClosed)
}

func TestServerEchoUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent1.sock")
	srv, ev := echoServer(t, "unix", path)
	assert.Equal(t, "unix", srv.Network())

	conn, err := transport.Dial(context.Background(), "unix", path)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, ev.connected)

	require.NoError(t, conn.Send([]byte{1, 2, 3, 4}))
	got, err := conn.Receive(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestServerStopClosesConnections(t *testing.T) {
	srv, ev := echoServer(t, "tcp", "127.0.0.1:0")

	conn, err := transport.Dial(context.Background(), "tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, ev.connected)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	waitFor(t, ev.disconnected)

	_, err = conn.Receive(2 * time.Second)
	assert.Error(t, err)

	_, err = net.DialTimeout("tcp", srv.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err, "listener must be closed")

	assert.NoError(t, srv.Stop(ctx), "second Stop is a no-op")
}

func TestServerStartTwice(t *testing.T) {
	srv, _ := echoServer(t, "tcp", "127.0.0.1:0")
	assert.ErrorIs(t, srv.Start(context.Background()), transport.ErrServerRunning)
}

func TestServerReportsOversizedFrame(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	srv, err := transport.NewServer(transport.ServerConfig{
		Address:      "127.0.0.1:0",
		MaxFrameSize: 16,
		OnError: func(_ *transport.ServerConn, err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop(context.Background())

	conn, err := transport.Dial(context.Background(), "tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Send(make([]byte, 32)))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) == 1 && errors.Is(errs[0], transport.ErrFrameTooLarge)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDialFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sock")
	_, err := transport.Dial(context.Background(), "unix", path)
	assert.Error(t, err)
}
